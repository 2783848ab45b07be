package jscan

import "github.com/klauspost/cpuid/v2"

// SupportedFeatures reports the CPU features the teacher's vectorized
// classifier would have required (AVX2 and carry-less multiply), purely
// as operational diagnostics: this classifier runs scalar on every
// platform, so the result never gates whether a query can be evaluated,
// only what a
// caller's monitoring might log alongside it.
type SupportedFeatures struct {
	AVX2  bool
	CLMUL bool
}

// CPUFeatures inspects the host CPU via cpuid and reports SupportedFeatures.
func CPUFeatures() SupportedFeatures {
	return SupportedFeatures{
		AVX2:  cpuid.CPU.Supports(cpuid.AVX2),
		CLMUL: cpuid.CPU.Supports(cpuid.CLMUL),
	}
}
