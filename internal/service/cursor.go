package service

import (
	"encoding/base64"
	"errors"
	"strconv"
)

// ErrInvalidCursor marks a caller-supplied cursor that does not decode to a
// rank offset.
var ErrInvalidCursor = errors.New("invalid cursor")

// CursorCodec turns a rank offset into an opaque pagination token and back.
// The encoding is an implementation detail; the pagination contract is about
// offsets, not format.
type CursorCodec interface {
	Encode(rank int) string
	Decode(cursor string) (int, error)
}

type base64CursorCodec struct{}

func NewCursorCodec() CursorCodec {
	return base64CursorCodec{}
}

func (base64CursorCodec) Encode(rank int) string {
	return base64.StdEncoding.EncodeToString([]byte(strconv.Itoa(rank)))
}

func (base64CursorCodec) Decode(cursor string) (int, error) {
	decoded, err := base64.StdEncoding.DecodeString(cursor)
	if err != nil {
		return 0, ErrInvalidCursor
	}
	rank, err := strconv.Atoi(string(decoded))
	if err != nil || rank < 0 {
		return 0, ErrInvalidCursor
	}
	return rank, nil
}
