// Package profile maps an (architecture, configuration) pair to the
// concrete build invocations used to compile the library.
package profile

import "fmt"

// Arch is a supported target architecture.
type Arch string

const (
	ArchX86     Arch = "x86"
	ArchAarch32 Arch = "aarch32"
	ArchAarch64 Arch = "aarch64"
)

// Arches lists the supported architectures.
var Arches = []Arch{ArchX86, ArchAarch32, ArchAarch64}

// BuildConfig is a supported library configuration.
type BuildConfig string

const (
	ConfigDefault   BuildConfig = "default"
	ConfigFull      BuildConfig = "full"
	ConfigBaremetal BuildConfig = "baremetal"
	ConfigTFMMedium BuildConfig = "tfm-medium"
)

// BuildConfigs lists the supported configurations.
var BuildConfigs = []BuildConfig{ConfigDefault, ConfigFull, ConfigBaremetal, ConfigTFMMedium}

// Profile selects how the library is built for a measurement.
type Profile struct {
	Arch   Arch
	Config BuildConfig

	// ArmCC is the cross compiler used for aarch32/aarch64 targets.
	ArmCC string
}

// ConfigTweaks is an ordered batch of build-time option mutations applied
// through the library's config script. Set options are applied before
// unset options.
type ConfigTweaks struct {
	Set   []string
	Unset []string
}

// Empty reports whether the batch contains no mutations.
func (t ConfigTweaks) Empty() bool {
	return len(t.Set) == 0 && len(t.Unset) == 0
}

// Options the default config must gain or lose to build for a bare-metal
// cross target: no platform entropy source, and no OS-dependent features
// (filesystem, wall-clock time, networking, persistent storage, timing).
var armDefaultTweaks = ConfigTweaks{
	Set: []string{
		"MBEDTLS_NO_PLATFORM_ENTROPY",
	},
	Unset: []string{
		"MBEDTLS_FS_IO",
		"MBEDTLS_HAVE_TIME",
		"MBEDTLS_HAVE_TIME_DATE",
		"MBEDTLS_NET_C",
		"MBEDTLS_PSA_CRYPTO_STORAGE_C",
		"MBEDTLS_PSA_ITS_FILE_C",
		"MBEDTLS_TIMING_C",
	},
}

// Plan is the resolved set of build invocations for a profile. Commands
// are argv slices handed directly to the process spawner; nothing is
// re-interpreted by a shell.
type Plan struct {
	// PreBuild is run before any build step. Empty means no pre-build step.
	PreBuild []string

	// Tweaks are config mutations applied after the pre-build step.
	Tweaks ConfigTweaks

	// Build compiles the library.
	Build []string
}

// UnsupportedProfileError reports an (architecture, configuration) pair
// outside the compatibility matrix.
type UnsupportedProfileError struct {
	Arch   Arch
	Config BuildConfig
}

// Error implements the error interface.
func (e *UnsupportedProfileError) Error() string {
	return fmt.Sprintf("config option %q is incompatible with architecture %q", e.Config, e.Arch)
}

// TF-M medium profile headers referenced by the tfm-medium build, relative
// to the library directory the compiler runs from.
const (
	tfmConfigFile       = `../configs/tfm_mbedcrypto_config_profile_medium.h`
	tfmCryptoConfigFile = `../configs/crypto_config_profile_medium.h`
)

// Resolve determines the build plan for the profile. It fails with
// UnsupportedProfileError for pairs outside the compatibility matrix,
// before any external command is run.
func (p Profile) Resolve() (*Plan, error) {
	plan := &Plan{}

	switch p.Config {
	case ConfigFull:
		plan.PreBuild = []string{"scripts/config.py", "full"}
	case ConfigBaremetal:
		plan.PreBuild = []string{"scripts/config.py", "baremetal"}
	}

	if p.Arch == ArchX86 {
		switch p.Config {
		case ConfigDefault, ConfigFull, ConfigBaremetal:
			plan.Build = []string{"make", "-j", "lib"}

			return plan, nil
		}
	}

	if p.Config == ConfigDefault {
		switch p.Arch {
		case ArchAarch32:
			plan.Tweaks = armDefaultTweaks
			plan.Build = []string{
				"make", "-j", "lib",
				"CC=" + p.ArmCC,
				"CFLAGS=--target=arm-arm-none-eabi -mcpu=cortex-m33 -Os",
			}

			return plan, nil
		case ArchAarch64:
			plan.Tweaks = armDefaultTweaks
			plan.Build = []string{
				"make", "-j", "lib",
				"CC=" + p.ArmCC,
				"CFLAGS=--target=aarch64-arm-none-eabi",
			}

			return plan, nil
		}
	}

	if p.Arch == ArchAarch32 && p.Config == ConfigTFMMedium {
		// The config-file defines carry backslash-escaped quotes: make
		// re-parses $(CFLAGS) through the recipe shell, and the macro must
		// still expand to a quoted path for the #include to resolve.
		plan.Build = []string{
			"make", "-j", "lib",
			"CC=" + p.ArmCC,
			`CFLAGS=--target=arm-arm-none-eabi -mcpu=cortex-m33 -Os` +
				` -DMBEDTLS_CONFIG_FILE=\"` + tfmConfigFile + `\"` +
				` -DMBEDTLS_PSA_CRYPTO_CONFIG_FILE=\"` + tfmCryptoConfigFile + `\"`,
		}

		return plan, nil
	}

	return nil, &UnsupportedProfileError{Arch: p.Arch, Config: p.Config}
}
