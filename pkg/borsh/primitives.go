package borsh

import (
	"bytes"
	"crypto/ed25519"
	"encoding/binary"
	"io"
	"math"
	"math/big"
	"unicode/utf8"

	"github.com/pkg/errors"
)

type boolLayout struct{}

func (boolLayout) Encode(w *bytes.Buffer, v interface{}) error {
	val, ok := v.(bool)
	if !ok {
		return errors.Wrapf(ErrValueType, "want bool, got %T", v)
	}
	if val {
		return w.WriteByte(1)
	}
	return w.WriteByte(0)
}

func (boolLayout) Decode(r *bytes.Reader) (interface{}, error) {
	b, err := r.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read bool")
	}
	switch b {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return nil, errors.Wrapf(ErrInvalidData, "bool byte 0x%x", b)
	}
}

type u8Layout struct{}

func (u8Layout) Encode(w *bytes.Buffer, v interface{}) error {
	val, ok := v.(uint8)
	if !ok {
		return errors.Wrapf(ErrValueType, "want uint8, got %T", v)
	}
	return w.WriteByte(val)
}

func (u8Layout) Decode(r *bytes.Reader) (interface{}, error) {
	b, err := r.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read u8")
	}
	return b, nil
}

type i8Layout struct{}

func (i8Layout) Encode(w *bytes.Buffer, v interface{}) error {
	val, ok := v.(int8)
	if !ok {
		return errors.Wrapf(ErrValueType, "want int8, got %T", v)
	}
	return w.WriteByte(byte(val))
}

func (i8Layout) Decode(r *bytes.Reader) (interface{}, error) {
	b, err := r.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "failed to read i8")
	}
	return int8(b), nil
}

type u16Layout struct{}

func (u16Layout) Encode(w *bytes.Buffer, v interface{}) error {
	val, ok := v.(uint16)
	if !ok {
		return errors.Wrapf(ErrValueType, "want uint16, got %T", v)
	}
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], val)
	_, err := w.Write(buf[:])
	return err
}

func (u16Layout) Decode(r *bytes.Reader) (interface{}, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, errors.Wrap(err, "failed to read u16")
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

type i16Layout struct{}

func (i16Layout) Encode(w *bytes.Buffer, v interface{}) error {
	val, ok := v.(int16)
	if !ok {
		return errors.Wrapf(ErrValueType, "want int16, got %T", v)
	}
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], uint16(val))
	_, err := w.Write(buf[:])
	return err
}

func (i16Layout) Decode(r *bytes.Reader) (interface{}, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, errors.Wrap(err, "failed to read i16")
	}
	return int16(binary.LittleEndian.Uint16(buf[:])), nil
}

type u32Layout struct{}

func (u32Layout) Encode(w *bytes.Buffer, v interface{}) error {
	val, ok := v.(uint32)
	if !ok {
		return errors.Wrapf(ErrValueType, "want uint32, got %T", v)
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], val)
	_, err := w.Write(buf[:])
	return err
}

func (u32Layout) Decode(r *bytes.Reader) (interface{}, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, errors.Wrap(err, "failed to read u32")
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

type i32Layout struct{}

func (i32Layout) Encode(w *bytes.Buffer, v interface{}) error {
	val, ok := v.(int32)
	if !ok {
		return errors.Wrapf(ErrValueType, "want int32, got %T", v)
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(val))
	_, err := w.Write(buf[:])
	return err
}

func (i32Layout) Decode(r *bytes.Reader) (interface{}, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, errors.Wrap(err, "failed to read i32")
	}
	return int32(binary.LittleEndian.Uint32(buf[:])), nil
}

type u64Layout struct{}

func (u64Layout) Encode(w *bytes.Buffer, v interface{}) error {
	val, ok := v.(uint64)
	if !ok {
		return errors.Wrapf(ErrValueType, "want uint64, got %T", v)
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], val)
	_, err := w.Write(buf[:])
	return err
}

func (u64Layout) Decode(r *bytes.Reader) (interface{}, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, errors.Wrap(err, "failed to read u64")
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

type i64Layout struct{}

func (i64Layout) Encode(w *bytes.Buffer, v interface{}) error {
	val, ok := v.(int64)
	if !ok {
		return errors.Wrapf(ErrValueType, "want int64, got %T", v)
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(val))
	_, err := w.Write(buf[:])
	return err
}

func (i64Layout) Decode(r *bytes.Reader) (interface{}, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, errors.Wrap(err, "failed to read i64")
	}
	return int64(binary.LittleEndian.Uint64(buf[:])), nil
}

// u128Layout carries 128-bit integers as *big.Int, 16 bytes little-endian
// on the wire, two's complement when signed.
type u128Layout struct {
	signed bool
}

var (
	twoTo128 = new(big.Int).Lsh(big.NewInt(1), 128)
	i128Max  = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	i128Min  = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
)

func (l u128Layout) Encode(w *bytes.Buffer, v interface{}) error {
	val, ok := v.(*big.Int)
	if !ok {
		return errors.Wrapf(ErrValueType, "want *big.Int, got %T", v)
	}

	// Range checks run on the original value; the two's complement
	// adjustment below would otherwise fold out-of-range values back
	// into range.
	encoded := new(big.Int).Set(val)
	if l.signed {
		if val.Cmp(i128Min) < 0 || val.Cmp(i128Max) > 0 {
			return errors.Wrapf(ErrValueType, "%s does not fit in signed 128 bits", val.String())
		}
		if encoded.Sign() < 0 {
			encoded.Add(encoded, twoTo128)
		}
	} else if encoded.Sign() < 0 || encoded.BitLen() > 128 {
		return errors.Wrapf(ErrValueType, "%s does not fit in 128 bits", val.String())
	}

	var buf [16]byte
	raw := encoded.Bytes() // big-endian
	for i, b := range raw {
		buf[len(raw)-1-i] = b
	}
	_, err := w.Write(buf[:])
	return err
}

func (l u128Layout) Decode(r *bytes.Reader) (interface{}, error) {
	var buf [16]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, errors.Wrap(err, "failed to read u128")
	}

	be := make([]byte, 16)
	for i, b := range buf {
		be[15-i] = b
	}
	val := new(big.Int).SetBytes(be)
	if l.signed && buf[15]&0x80 != 0 {
		val.Sub(val, twoTo128)
	}
	return val, nil
}

type f32Layout struct{}

func (f32Layout) Encode(w *bytes.Buffer, v interface{}) error {
	val, ok := v.(float32)
	if !ok {
		return errors.Wrapf(ErrValueType, "want float32, got %T", v)
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], math.Float32bits(val))
	_, err := w.Write(buf[:])
	return err
}

func (f32Layout) Decode(r *bytes.Reader) (interface{}, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, errors.Wrap(err, "failed to read f32")
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[:])), nil
}

type f64Layout struct{}

func (f64Layout) Encode(w *bytes.Buffer, v interface{}) error {
	val, ok := v.(float64)
	if !ok {
		return errors.Wrapf(ErrValueType, "want float64, got %T", v)
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(val))
	_, err := w.Write(buf[:])
	return err
}

func (f64Layout) Decode(r *bytes.Reader) (interface{}, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, errors.Wrap(err, "failed to read f64")
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(buf[:])), nil
}

// bytesLayout is a u32 length prefix followed by the raw bytes.
type bytesLayout struct{}

func (bytesLayout) Encode(w *bytes.Buffer, v interface{}) error {
	val, ok := v.([]byte)
	if !ok {
		return errors.Wrapf(ErrValueType, "want []byte, got %T", v)
	}
	if err := writeLen(w, len(val)); err != nil {
		return err
	}
	_, err := w.Write(val)
	return err
}

func (bytesLayout) Decode(r *bytes.Reader) (interface{}, error) {
	n, err := readLen(r, "bytes")
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, errors.Wrap(err, "failed to read bytes")
	}
	return out, nil
}

// stringLayout is a u32 length prefix followed by the UTF-8 bytes.
type stringLayout struct{}

func (stringLayout) Encode(w *bytes.Buffer, v interface{}) error {
	val, ok := v.(string)
	if !ok {
		return errors.Wrapf(ErrValueType, "want string, got %T", v)
	}
	if err := writeLen(w, len(val)); err != nil {
		return err
	}
	_, err := w.WriteString(val)
	return err
}

func (stringLayout) Decode(r *bytes.Reader) (interface{}, error) {
	n, err := readLen(r, "string")
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, errors.Wrap(err, "failed to read string")
	}
	if !utf8.Valid(out) {
		return nil, errors.Wrap(ErrInvalidData, "string is not valid utf-8")
	}
	return string(out), nil
}

// pubkeyLayout is 32 fixed bytes.
type pubkeyLayout struct{}

func (pubkeyLayout) Encode(w *bytes.Buffer, v interface{}) error {
	var key []byte
	switch k := v.(type) {
	case ed25519.PublicKey:
		key = k
	case []byte:
		key = k
	default:
		return errors.Wrapf(ErrValueType, "want public key, got %T", v)
	}
	if len(key) != ed25519.PublicKeySize {
		return errors.Wrapf(ErrValueType, "public key has %d bytes", len(key))
	}
	_, err := w.Write(key)
	return err
}

func (pubkeyLayout) Decode(r *bytes.Reader) (interface{}, error) {
	key := make([]byte, ed25519.PublicKeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, errors.Wrap(err, "failed to read public key")
	}
	return ed25519.PublicKey(key), nil
}

func writeLen(w *bytes.Buffer, n int) error {
	if uint64(n) > math.MaxUint32 {
		return errors.Wrapf(ErrValueType, "length %d exceeds u32", n)
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], uint32(n))
	_, err := w.Write(buf[:])
	return err
}

func readLen(r *bytes.Reader, what string) (int, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, errors.Wrapf(err, "failed to read %s length", what)
	}
	n := binary.LittleEndian.Uint32(buf[:])
	if int(n) > r.Len() {
		return 0, errors.Wrapf(ErrInvalidData, "%s length %d exceeds remaining %d bytes", what, n, r.Len())
	}
	return int(n), nil
}
