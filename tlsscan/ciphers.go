package tlsscan

import (
	"bytes"
	_ "embed"
	"encoding/binary"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

//go:embed assets/cipher-suites.csv
var cipherSuitesCSV []byte

const (
	columnName = iota
	columnKeyExchange
	columnAuthentication
	columnEncryption
	columnBits
	columnMAC
	columnValue

	columnCount
)

type CipherSuite struct {
	ID             uint16
	Name           string
	KeyExchange    string
	Authentication string
	Encryption     string
	MAC            string
	Bits           int
}

// Value returns the suite id as it appears on the wire.
func (c CipherSuite) Value() [2]byte {
	var v [2]byte
	binary.BigEndian.PutUint16(v[:], c.ID)
	return v
}

func (c CipherSuite) String() string {
	return fmt.Sprintf("%s (0x%02X,0x%02X)", c.Name, c.ID>>8, c.ID&0xff)
}

// Registry is the catalog of every cipher suite the inspector knows how to
// offer, in declaration order. Entries sharing an id or a name are kept as
// they are declared.
type Registry struct {
	suites []CipherSuite
}

func LoadRegistry() (*Registry, error) {
	suites, err := parseCipherSuites(cipherSuitesCSV)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load cipher suite catalog")
	}

	return &Registry{suites: suites}, nil
}

// All returns a copy of the catalog so callers cannot reorder or modify it.
func (r *Registry) All() []CipherSuite {
	all := make([]CipherSuite, len(r.suites))
	copy(all, r.suites)
	return all
}

func (r *Registry) Len() int {
	return len(r.suites)
}

func parseCipherSuites(data []byte) ([]CipherSuite, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = columnCount

	table, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	cs := []CipherSuite{}

	// loop over all rows after header
	for i := 1; i < len(table); i++ {
		row := table[i]

		cid, err := strconv.ParseUint(strings.Replace(row[columnValue], ",0x", "", 1), 0, 16)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d: bad value %q", i, row[columnValue])
		}

		bits, err := strconv.Atoi(row[columnBits])
		if err != nil || bits < 0 {
			return nil, errors.Errorf("row %d: bad key size %q", i, row[columnBits])
		}

		cs = append(cs, CipherSuite{
			ID:             uint16(cid),
			Name:           row[columnName],
			KeyExchange:    row[columnKeyExchange],
			Authentication: row[columnAuthentication],
			Encryption:     row[columnEncryption],
			MAC:            row[columnMAC],
			Bits:           bits,
		})
	}

	return cs, nil
}
