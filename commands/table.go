package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/xlucas/ssl-inspector/tlsscan"
)

func showSuites(w io.Writer, suites []tlsscan.CipherSuite) error {
	wr := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintln(wr, strings.Join([]string{"Name", "Value", "KeyExchange", "Authentication", "Encryption", "Bits", "MAC"}, "\t"))

	for _, suite := range suites {
		value := suite.Value()

		fmt.Fprintf(wr,
			"%s\t0x%02X,0x%02X\t%s\t%s\t%s\t%d\t%s\n",
			suite.Name,
			value[0],
			value[1],
			suite.KeyExchange,
			suite.Authentication,
			suite.Encryption,
			suite.Bits,
			suite.MAC,
		)
	}

	return wr.Flush()
}
