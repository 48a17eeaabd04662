package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveSupported(t *testing.T) {
	tests := []struct {
		name         string
		profile      Profile
		wantPreBuild []string
		wantBuild    []string
		wantTweaks   bool
	}{
		{
			name:      "x86 default",
			profile:   Profile{Arch: ArchX86, Config: ConfigDefault},
			wantBuild: []string{"make", "-j", "lib"},
		},
		{
			name:         "x86 full",
			profile:      Profile{Arch: ArchX86, Config: ConfigFull},
			wantPreBuild: []string{"scripts/config.py", "full"},
			wantBuild:    []string{"make", "-j", "lib"},
		},
		{
			name:         "x86 baremetal",
			profile:      Profile{Arch: ArchX86, Config: ConfigBaremetal},
			wantPreBuild: []string{"scripts/config.py", "baremetal"},
			wantBuild:    []string{"make", "-j", "lib"},
		},
		{
			name:    "aarch32 default",
			profile: Profile{Arch: ArchAarch32, Config: ConfigDefault, ArmCC: "armclang"},
			wantBuild: []string{
				"make", "-j", "lib",
				"CC=armclang",
				"CFLAGS=--target=arm-arm-none-eabi -mcpu=cortex-m33 -Os",
			},
			wantTweaks: true,
		},
		{
			name:    "aarch64 default",
			profile: Profile{Arch: ArchAarch64, Config: ConfigDefault, ArmCC: "armclang"},
			wantBuild: []string{
				"make", "-j", "lib",
				"CC=armclang",
				"CFLAGS=--target=aarch64-arm-none-eabi",
			},
			wantTweaks: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := tt.profile.Resolve()
			require.NoError(t, err)

			assert.Equal(t, tt.wantPreBuild, plan.PreBuild)
			assert.Equal(t, tt.wantBuild, plan.Build)
			assert.Equal(t, tt.wantTweaks, !plan.Tweaks.Empty())
		})
	}
}

func TestResolveTFMMedium(t *testing.T) {
	plan, err := Profile{Arch: ArchAarch32, Config: ConfigTFMMedium, ArmCC: "armclang"}.Resolve()
	require.NoError(t, err)

	assert.Empty(t, plan.PreBuild)
	assert.True(t, plan.Tweaks.Empty())

	require.Len(t, plan.Build, 5)
	assert.Equal(t, "CC=armclang", plan.Build[3])
	assert.Contains(t, plan.Build[4], "-mcpu=cortex-m33 -Os")

	// The quotes around the header paths must be backslash-escaped so they
	// survive the recipe shell's re-parse of $(CFLAGS).
	assert.Contains(t, plan.Build[4],
		`-DMBEDTLS_CONFIG_FILE=\"../configs/tfm_mbedcrypto_config_profile_medium.h\"`)
	assert.Contains(t, plan.Build[4],
		`-DMBEDTLS_PSA_CRYPTO_CONFIG_FILE=\"../configs/crypto_config_profile_medium.h\"`)
	assert.NotContains(t, plan.Build[4], `FILE="../configs`)
}

func TestResolveUnsupported(t *testing.T) {
	tests := []struct {
		arch   Arch
		config BuildConfig
	}{
		{ArchX86, ConfigTFMMedium},
		{ArchAarch32, ConfigFull},
		{ArchAarch32, ConfigBaremetal},
		{ArchAarch64, ConfigFull},
		{ArchAarch64, ConfigBaremetal},
		{ArchAarch64, ConfigTFMMedium},
	}

	for _, tt := range tests {
		t.Run(string(tt.arch)+"/"+string(tt.config), func(t *testing.T) {
			_, err := Profile{Arch: tt.arch, Config: tt.config}.Resolve()
			require.Error(t, err)

			var unsupported *UnsupportedProfileError
			require.ErrorAs(t, err, &unsupported)
			assert.Equal(t, tt.arch, unsupported.Arch)
			assert.Equal(t, tt.config, unsupported.Config)
		})
	}
}

func TestArmDefaultTweaks(t *testing.T) {
	plan, err := Profile{Arch: ArchAarch64, Config: ConfigDefault, ArmCC: "armclang"}.Resolve()
	require.NoError(t, err)

	assert.Equal(t, []string{"MBEDTLS_NO_PLATFORM_ENTROPY"}, plan.Tweaks.Set)
	assert.Equal(t, []string{
		"MBEDTLS_FS_IO",
		"MBEDTLS_HAVE_TIME",
		"MBEDTLS_HAVE_TIME_DATE",
		"MBEDTLS_NET_C",
		"MBEDTLS_PSA_CRYPTO_STORAGE_C",
		"MBEDTLS_PSA_ITS_FILE_C",
		"MBEDTLS_TIMING_C",
	}, plan.Tweaks.Unset)
}

func TestParseArch(t *testing.T) {
	a, err := ParseArch("aarch64")
	require.NoError(t, err)
	assert.Equal(t, ArchAarch64, a)

	_, err = ParseArch("riscv")
	require.Error(t, err)
}

func TestParseBuildConfig(t *testing.T) {
	c, err := ParseBuildConfig("tfm-medium")
	require.NoError(t, err)
	assert.Equal(t, ConfigTFMMedium, c)

	_, err = ParseBuildConfig("tiny")
	require.Error(t, err)
}
