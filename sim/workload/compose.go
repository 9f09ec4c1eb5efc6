package workload

import "fmt"

// ComposeSpecs merges several workload specs into one.
// Patients and generators are concatenated in input order; the merged horizon
// is the largest one given and the seed is the first non-zero seed.
// Name collisions surface later, in GenerateArrivals.
func ComposeSpecs(specs []*WorkloadSpec) (*WorkloadSpec, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("at least one spec file required")
	}

	merged := &WorkloadSpec{Version: "1"}
	for i, s := range specs {
		if s == nil {
			return nil, fmt.Errorf("spec %d is nil", i)
		}
		if merged.Seed == 0 {
			merged.Seed = s.Seed
		}
		merged.Horizon = max(merged.Horizon, s.Horizon)
		merged.Patients = append(merged.Patients, s.Patients...)
		merged.Generators = append(merged.Generators, s.Generators...)
	}
	return merged, nil
}
