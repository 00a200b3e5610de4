package s3wire

import "fmt"

type StorageClass uint8

const (
	StorageClassUnknown StorageClass = iota
	StorageClassStandard
	StorageClassStandardIA
	StorageClassReducedRedundancy
	StorageClassGlacier
)

var (
	storageClassNames = map[StorageClass]string{
		StorageClassUnknown:           "UNKNOWN",
		StorageClassStandard:          "STANDARD",
		StorageClassStandardIA:        "STANDARD_IA",
		StorageClassReducedRedundancy: "REDUCED_REDUNDANCY",
		StorageClassGlacier:           "GLACIER",
	}
	storageClassValues = map[string]StorageClass{
		"UNKNOWN":            StorageClassUnknown,
		"STANDARD":           StorageClassStandard,
		"STANDARD_IA":        StorageClassStandardIA,
		"REDUCED_REDUNDANCY": StorageClassReducedRedundancy,
		"GLACIER":            StorageClassGlacier,
	}
)

func (sc StorageClass) String() string {
	if name, ok := storageClassNames[sc]; ok {
		return name
	}
	return "UNKNOWN"
}

func ParseStorageClass(name string) (StorageClass, error) {
	if sc, ok := storageClassValues[name]; ok {
		return sc, nil
	}
	return StorageClassUnknown, fmt.Errorf("invalid storage class %q", name)
}
