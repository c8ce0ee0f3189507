package dicom

import (
	"fmt"
	"hash/fnv"
	"math/big"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// mustNewElement creates a new DICOM element, panicking on error.
func mustNewElement(t tag.Tag, value interface{}) *dicom.Element {
	elem, err := dicom.NewElement(t, value)
	if err != nil {
		panic(fmt.Sprintf("failed to create element %v: %v", t, err))
	}
	return elem
}

// floatToDS converts a float64 to a DICOM Decimal String.
func floatToDS(f float64) string {
	return fmt.Sprintf("%.6g", f)
}

// deterministicUID derives a UID under the 2.25 root from key, so the same
// key always yields the same UID.
func deterministicUID(key string) string {
	h := fnv.New128a()
	_, _ = h.Write([]byte(key)) // hash.Write never returns an error
	n := new(big.Int).SetBytes(h.Sum(nil))
	return "2.25." + n.String()
}
