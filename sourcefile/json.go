package sourcefile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/Azhovan/envflat"
)

// decodeJSON walks the token stream so object members keep their order and
// numbers keep their source text.
func decodeJSON(data []byte) (envflat.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	root, err := readJSONValue(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			return nil, fmt.Errorf("invalid character after top-level value at offset %d", dec.InputOffset())
		}
		return nil, err
	}
	return root, nil
}

func readJSONValue(dec *json.Decoder) (envflat.Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.ErrUnexpectedEOF
		}
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return readJSONObject(dec)
		case '[':
			return readJSONArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %q at offset %d", t, dec.InputOffset())
	case string:
		return envflat.String(t), nil
	case json.Number:
		return envflat.Number(t), nil
	case bool:
		return envflat.Bool(t), nil
	case nil:
		return envflat.Null{}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v at offset %d", t, dec.InputOffset())
	}
}

func readJSONObject(dec *json.Decoder) (envflat.Value, error) {
	obj := envflat.Object{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string at offset %d", dec.InputOffset())
		}

		val, err := readJSONValue(dec)
		if err != nil {
			return nil, err
		}
		obj = obj.Set(key, val)
	}
	if err := readJSONEnd(dec); err != nil {
		return nil, err
	}
	return obj, nil
}

func readJSONArray(dec *json.Decoder) (envflat.Value, error) {
	arr := envflat.Array{}
	for dec.More() {
		val, err := readJSONValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
	if err := readJSONEnd(dec); err != nil {
		return nil, err
	}
	return arr, nil
}

// readJSONEnd consumes the closing delimiter of an object or array.
func readJSONEnd(dec *json.Decoder) error {
	if _, err := dec.Token(); err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}
		return err
	}
	return nil
}
