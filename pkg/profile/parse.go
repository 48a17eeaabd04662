package profile

import "fmt"

// ParseArch validates an architecture name.
func ParseArch(s string) (Arch, error) {
	for _, a := range Arches {
		if s == string(a) {
			return a, nil
		}
	}

	return "", fmt.Errorf("unknown architecture %q (supported: x86, aarch32, aarch64)", s)
}

// ParseBuildConfig validates a configuration name.
func ParseBuildConfig(s string) (BuildConfig, error) {
	for _, c := range BuildConfigs {
		if s == string(c) {
			return c, nil
		}
	}

	return "", fmt.Errorf("unknown configuration %q (supported: default, full, baremetal, tfm-medium)", s)
}
