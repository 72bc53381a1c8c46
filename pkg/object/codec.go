package object

import (
	"bytes"
	"fmt"
	"strconv"
)

func header(objType ObjectType, n int) []byte {
	h := make([]byte, 0, len(objType)+24)
	h = append(h, string(objType)...)
	h = append(h, ' ')
	h = strconv.AppendInt(h, int64(n), 10)
	return append(h, 0)
}

// Encode frames data as "type len\0content", the representation that is
// hashed and compressed on disk.
func Encode(objType ObjectType, data []byte) []byte {
	h := header(objType, len(data))
	out := make([]byte, 0, len(h)+len(data))
	out = append(out, h...)
	return append(out, data...)
}

// Decode parses a framed object. The declared size must match the payload
// length exactly; anything else is reported as ErrMalformedObject.
func Decode(raw []byte) (*Object, error) {
	sp := bytes.IndexByte(raw, ' ')
	if sp < 0 {
		return nil, fmt.Errorf("%w: missing type separator", ErrMalformedObject)
	}
	nul := bytes.IndexByte(raw[sp:], 0)
	if nul < 0 {
		return nil, fmt.Errorf("%w: missing header terminator", ErrMalformedObject)
	}
	nul += sp

	objType := ObjectType(raw[:sp])
	sizeField := string(raw[sp+1 : nul])
	if sizeField == "" || sizeField[0] < '0' || sizeField[0] > '9' {
		return nil, fmt.Errorf("%w: invalid length %q", ErrMalformedObject, sizeField)
	}
	size, err := strconv.ParseUint(sizeField, 10, 63)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid length %q", ErrMalformedObject, sizeField)
	}
	data := raw[nul+1:]
	if uint64(len(data)) != size {
		return nil, fmt.Errorf("%w: length mismatch (header=%d, actual=%d)", ErrMalformedObject, size, len(data))
	}

	return &Object{Type: objType, Size: len(data), Data: data}, nil
}
