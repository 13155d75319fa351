// Package exporter serializes the account collection for backup and
// sharing.
package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tokswap/tokswap/internal/model"
	"github.com/tokswap/tokswap/internal/sanitize"
)

// DefaultExportPath returns the default export file path.
// Format: ~/Downloads/tokswap-accounts-YYYY-MM-DD.json
func DefaultExportPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("tokswap-accounts-%s.json", time.Now().Format("2006-01-02"))
	return filepath.Join(home, "Downloads", filename), nil
}

// ExportJSON renders the accounts as the record-sequence import
// format.
func ExportJSON(accounts []model.Account) ([]byte, error) {
	return json.MarshalIndent(accounts, "", "  ")
}

// ExportHTML renders a printable account listing. Every account- or
// tag-derived string is sanitized before interpolation; tag names and
// scraped display names are untrusted.
func ExportHTML(accounts []model.Account, tags []model.Tag) string {
	tagByID := model.BuildTagMap(tags)

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString("<META HTTP-EQUIV=\"Content-Type\" CONTENT=\"text/html; charset=UTF-8\">\n")
	b.WriteString("<TITLE>Accounts</TITLE>\n")
	b.WriteString("<H1>Accounts</H1>\n")
	b.WriteString("<UL>\n")

	for _, acc := range accounts {
		b.WriteString("    <LI>")
		b.WriteString(sanitize.Sanitize(acc.Email))
		if acc.Plan != "" {
			fmt.Fprintf(&b, " <EM>%s</EM>", sanitize.Sanitize(acc.Plan))
		}
		fmt.Fprintf(&b, " <CODE>%s</CODE>", sanitize.Sanitize(acc.ShortToken()))
		for _, tagID := range acc.TagIDs {
			tag, ok := tagByID[tagID]
			if !ok {
				continue
			}
			fmt.Fprintf(&b, " <SPAN>#%s</SPAN>", sanitize.Sanitize(tag.Name))
		}
		b.WriteString("</LI>\n")
	}

	b.WriteString("</UL>\n")
	return b.String()
}
