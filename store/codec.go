package store

import (
	"encoding/json"

	"github.com/gorgonia/arbiter"
	"github.com/pkg/errors"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

type record struct {
	SchemaVersion int             `json:"schema_version"`
	CodecVersion  int             `json:"codec_version"`
	Name          string          `json:"name"`
	Space         json.RawMessage `json:"space"`
}

func encodeRecord(name string, s *arbiter.GlobalPoolingSpace) ([]byte, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if s == nil {
		return nil, errors.Errorf("nil space %q", name)
	}
	space, err := arbiter.Encode(s, arbiter.FormatJSON)
	if err != nil {
		return nil, errors.Wrapf(err, "encode space %q", name)
	}
	return json.Marshal(record{
		SchemaVersion: CurrentSchemaVersion,
		CodecVersion:  CurrentCodecVersion,
		Name:          name,
		Space:         space,
	})
}

func decodeRecord(data []byte) (*arbiter.GlobalPoolingSpace, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, errors.Wrap(err, "unmarshal record")
	}
	if r.SchemaVersion != CurrentSchemaVersion || r.CodecVersion != CurrentCodecVersion {
		return nil, errors.Wrapf(ErrVersionMismatch, "schema=%d codec=%d", r.SchemaVersion, r.CodecVersion)
	}
	s, err := arbiter.Decode(r.Space, arbiter.FormatJSON)
	if err != nil {
		return nil, errors.Wrapf(err, "decode space %q", r.Name)
	}
	return s, nil
}
