package wkbraster

import "fmt"

// Packing rule for 1-, 2- and 4-bit samples in DialectCompact: samples of a
// row are packed most significant bits first, so the first pixel of a row
// occupies the highest bits of the first byte. Every row starts on a fresh
// byte; unused low bits of the last byte of a row are zero. Decoders ignore
// the padding bits.
//
// In DialectPostGIS each sub-byte sample takes a whole byte and is masked to
// its bit width on decode.

// PackRowBytes is the number of bytes a packed row of width samples of the
// given bit depth occupies in DialectCompact.
func PackRowBytes(width, bits int) int {
	return (width*bits + 7) / 8
}

func writeSubByte(w *writer, rows [][]uint8, bits int, d Dialect) {
	if d == DialectPostGIS {
		writeGrid(rows, w.uint8)

		return
	}

	for _, row := range rows {
		packed := make([]byte, PackRowBytes(len(row), bits))

		for j, v := range row {
			off := j * bits
			packed[off/8] |= v << (8 - bits - off%8)
		}

		w.buf = append(w.buf, packed...)
	}
}

func readSubByte(r *reader, width, height, bits int, d Dialect) ([][]uint8, error) {
	mask := uint8(1<<bits - 1)

	if d == DialectPostGIS {
		if err := r.ensure(width*height, "pixel data"); err != nil {
			return nil, err
		}

		rows, err := readGrid(r, width, height, r.uint8)
		if err != nil {
			return nil, err
		}

		for _, row := range rows {
			for j := range row {
				row[j] &= mask
			}
		}

		return rows, nil
	}

	rowBytes := PackRowBytes(width, bits)
	if err := r.ensure(rowBytes*height, "packed pixel data"); err != nil {
		return nil, err
	}

	rows := make([][]uint8, height)

	for i := range rows {
		packed, err := r.next(rowBytes, fmt.Sprintf("packed row %d", i))
		if err != nil {
			return nil, err
		}

		row := make([]uint8, width)
		for j := range row {
			off := j * bits
			row[j] = (packed[off/8] >> (8 - bits - off%8)) & mask
		}

		rows[i] = row
	}

	return rows, nil
}

func readGrid[T any](r *reader, width, height int, get func(what string) (T, error)) ([][]T, error) {
	rows := make([][]T, height)

	for i := range rows {
		row := make([]T, width)

		for j := range row {
			v, err := get("pixel")
			if err != nil {
				return nil, err
			}

			row[j] = v
		}

		rows[i] = row
	}

	return rows, nil
}
