package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Klingon-tech/tonkeys/internal/pipeline"
	"github.com/Klingon-tech/tonkeys/internal/wallet"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

// renderReport prints the key, the addresses and a per-step summary.
func renderReport(w io.Writer, rep *pipeline.Report) {
	if rep.KeyPair != nil {
		fmt.Fprintf(w, "\nPath:        %s\n", rep.KeyPair.Path)
		fmt.Fprintf(w, "Public key:  %s\n", hex.EncodeToString(rep.KeyPair.PublicKey))
		fmt.Fprintf(w, "Fingerprint: %s\n\n", rep.KeyPair.Fingerprint())
	}

	if len(rep.Addresses) > 0 {
		t := newTable(w)
		t.AppendHeader(table.Row{"Version", "Bounceable", "Non-bounceable", "Raw"})
		for _, a := range rep.Addresses {
			t.AppendRow(table.Row{a.Version, a.Bounceable, a.NonBounceable, a.Raw})
		}
		t.Render()
		fmt.Fprintln(w)
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Step", "Result"})
	for _, s := range rep.Steps {
		result := "ok"
		if s.Err != nil {
			result = "failed: " + s.Err.Error()
		}
		t.AppendRow(table.Row{s.Step, result})
	}
	t.Render()
}

func renderAddressInfo(w io.Writer, info *wallet.AddressInfo) {
	t := newTable(w)
	t.AppendRows([]table.Row{
		{"Workchain", info.Workchain},
		{"Raw", info.Raw},
		{"Bounceable", yesNo(info.Bounceable)},
		{"Testnet only", yesNo(info.TestnetOnly)},
	})
	t.AppendSeparator()
	t.AppendRows([]table.Row{
		{"Mainnet bounceable", info.MainnetBounceable},
		{"Mainnet non-bounceable", info.MainnetNonBounceable},
		{"Testnet bounceable", info.TestnetBounceable},
		{"Testnet non-bounceable", info.TestnetNonBounceable},
	})
	t.Render()
}

func renderKeystore(w io.Writer, entries []*wallet.KeystoreEntry) {
	t := newTable(w)
	t.AppendHeader(table.Row{"Name", "Created", "Path", "Fingerprint", "Addresses"})
	for _, e := range entries {
		t.AppendRow(table.Row{
			e.Name,
			e.CreatedAt.Format("2006-01-02 15:04"),
			e.Path,
			e.Fingerprint,
			formatAddresses(e.Addresses),
		})
	}
	t.Render()
}

func formatAddresses(addrs map[string]string) string {
	versions := make([]string, 0, len(addrs))
	for v := range addrs {
		versions = append(versions, v)
	}
	sort.Strings(versions)

	lines := make([]string, 0, len(versions))
	for _, v := range versions {
		lines = append(lines, v+": "+addrs[v])
	}
	return strings.Join(lines, "\n")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
