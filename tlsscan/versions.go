package tlsscan

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	VersionSSL30 = 0x0300
	VersionTLS10 = 0x0301
	VersionTLS11 = 0x0302
	VersionTLS12 = 0x0303
)

var ErrUnknownProtocolVersion = errors.New("unknown protocol version")

type ProtocolVersion struct {
	ID   uint16
	Name string
}

func (v ProtocolVersion) Major() byte { return byte(v.ID >> 8) }
func (v ProtocolVersion) Minor() byte { return byte(v.ID) }

var protocolVersions = [...]ProtocolVersion{
	{ID: VersionSSL30, Name: "SSLv3"},
	{ID: VersionTLS10, Name: "TLSv1.0"},
	{ID: VersionTLS11, Name: "TLSv1.1"},
	{ID: VersionTLS12, Name: "TLSv1.2"},
}

func ProtocolVersions() []ProtocolVersion {
	return append([]ProtocolVersion(nil), protocolVersions[:]...)
}

func LookupProtocolVersion(name string) (ProtocolVersion, error) {
	for _, v := range protocolVersions {
		if v.Name == name {
			return v, nil
		}
	}

	names := make([]string, 0, len(protocolVersions))
	for _, v := range protocolVersions {
		names = append(names, v.Name)
	}

	return ProtocolVersion{}, errors.Wrapf(ErrUnknownProtocolVersion, "%q (expected one of %s)", name, strings.Join(names, ", "))
}
