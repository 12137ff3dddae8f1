package tlsscan

import (
	"bytes"
	"encoding/binary"
)

const (
	recordTypeHandshake      = 0x16
	handshakeTypeClientHello = 0x01
	compressionNone          = 0x00

	recordHeaderLen    = 5
	handshakeHeaderLen = 4
)

// ClientHelloLen is the size of every record built by BuildClientHello.
const ClientHelloLen = 50

// The server only has to pick (or refuse) the single suite on offer, so the
// random does not need to be random.
var helloRandom = [32]byte{
	0x53, 0x4A, 0x84, 0xA9,
	0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
	0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F,
	0x10, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17,
	0x18, 0x19, 0x1A, 0x1B,
}

// BuildClientHello returns a complete handshake record carrying a ClientHello
// that offers exactly one cipher suite, no session id, null compression and no
// extensions.
func BuildClientHello(version ProtocolVersion, suiteID uint16) []byte {
	var body bytes.Buffer
	body.Write(uint16Bytes(version.ID))
	body.Write(helloRandom[:])

	body.WriteByte(0) // session id length

	body.Write(uint16Bytes(2))
	body.Write(uint16Bytes(suiteID))

	body.WriteByte(1)
	body.WriteByte(compressionNone)

	handshake := make([]byte, 0, handshakeHeaderLen+body.Len())
	handshake = append(handshake, handshakeTypeClientHello)
	handshake = append(handshake, uint24Bytes(body.Len())...)
	handshake = append(handshake, body.Bytes()...)

	record := make([]byte, 0, recordHeaderLen+len(handshake))
	record = append(record, recordTypeHandshake)
	record = append(record, uint16Bytes(version.ID)...)
	record = append(record, uint16Bytes(uint16(len(handshake)))...)
	record = append(record, handshake...)

	return record
}

func uint16Bytes(i uint16) []byte {
	res := make([]byte, 2)
	binary.BigEndian.PutUint16(res, i)
	return res
}

func uint24Bytes(i int) []byte {
	return []byte{byte(i >> 16), byte(i >> 8), byte(i)}
}
