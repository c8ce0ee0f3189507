package dicom

import (
	"encoding/binary"
	"fmt"
	"os"
)

// TruncatePixelData cuts a written explicit VR little endian file halfway
// through its PixelData (7FE0,0010) value, leaving the declared length
// intact. Parsers reading the result hit an unexpected EOF.
func TruncatePixelData(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read file for truncation: %w", err)
	}

	offset, length, ok := findPixelData(data)
	if !ok {
		return fmt.Errorf("pixel data element not found in %s", filePath)
	}

	cut := offset + int(length/2)
	if cut >= len(data) {
		return nil
	}
	return os.WriteFile(filePath, data[:cut], 0600)
}

// findPixelData returns the offset of the PixelData value and its declared
// length. Only the long-form OW/OB header is recognised.
func findPixelData(data []byte) (offset int, length uint32, ok bool) {
	// Last match wins: the element is at the end of the dataset
	for i := len(data) - 12; i >= 0; i-- {
		if data[i] == 0xE0 && data[i+1] == 0x7F && data[i+2] == 0x10 && data[i+3] == 0x00 {
			vr := string(data[i+4 : i+6])
			if vr == "OW" || vr == "OB" {
				return i + 12, binary.LittleEndian.Uint32(data[i+8 : i+12]), true
			}
		}
	}
	return 0, 0, false
}
