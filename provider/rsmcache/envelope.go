package rsmcache

import (
	"bytes"
	"encoding/gob"

	"github.com/tangelo-labs/go-wkbraster"
)

type op uint8

const (
	opPut op = iota
	opRemove
	opFlush
)

// envelope is the message exchanged between instances.
type envelope struct {
	InstanceID string
	Op         op
	Key        string
	Text       string
}

var _ wkbraster.Codec[*envelope] = envelopeCodec{}

// envelopeCodec gob-encodes envelopes.
type envelopeCodec struct{}

func (envelopeCodec) Encode(env *envelope) ([]byte, error) {
	var buff bytes.Buffer

	if err := gob.NewEncoder(&buff).Encode(env); err != nil {
		return nil, err
	}

	return buff.Bytes(), nil
}

func (envelopeCodec) Decode(data []byte) (*envelope, error) {
	env := &envelope{}

	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(env); err != nil {
		return nil, err
	}

	return env, nil
}
