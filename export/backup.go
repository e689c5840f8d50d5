package export

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/warp/roster-engine/allowance"
	"github.com/warp/roster-engine/generic"
)

// =============================================================================
// XML BACKUP
// =============================================================================
//
//   <?xml version="1.0" encoding="UTF-8"?>
//   <rosterData version="1.0">
//     <user>
//       <firstName><![CDATA[Mario]]></firstName>
//       <lastName><![CDATA[Rossi]]></lastName>
//     </user>
//     <data>
//       <financialData><![CDATA[{...}]]></financialData>
//       <calculatedShifts><![CDATA[[...]]]></calculatedShifts>
//     </data>
//   </rosterData>

// BackupVersion is written on export and the only version accepted on import.
const BackupVersion = "1.0"

type backupDoc struct {
	XMLName xml.Name   `xml:"rosterData"`
	Version string     `xml:"version,attr"`
	User    backupUser `xml:"user"`
	Data    backupData `xml:"data"`
}

type backupUser struct {
	FirstName cdata `xml:"firstName"`
	LastName  cdata `xml:"lastName"`
}

type backupData struct {
	FinancialData    cdata `xml:"financialData"`
	CalculatedShifts cdata `xml:"calculatedShifts"`
}

// cdata marshals its text inside a CDATA section and unmarshals plain or
// CDATA text alike.
type cdata struct {
	Text string `xml:",cdata"`
}

// WriteBackup encodes the snapshot as an XML backup.
func WriteBackup(w io.Writer, snap allowance.Snapshot) error {
	fin, err := json.Marshal(snap.Financial)
	if err != nil {
		return fmt.Errorf("failed to encode financial data: %w", err)
	}
	shifts := snap.Shifts
	if shifts == nil {
		shifts = []allowance.CalculatedShift{}
	}
	calc, err := json.Marshal(shifts)
	if err != nil {
		return fmt.Errorf("failed to encode shifts: %w", err)
	}

	doc := backupDoc{
		Version: BackupVersion,
		User: backupUser{
			FirstName: cdata{Text: snap.Profile.FirstName},
			LastName:  cdata{Text: snap.Profile.LastName},
		},
		Data: backupData{
			FinancialData:    cdata{Text: string(fin)},
			CalculatedShifts: cdata{Text: string(calc)},
		},
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}
	return enc.Flush()
}

// ReadBackup decodes and validates an XML backup. Any structural or JSON
// problem yields generic.ErrInvalidBackup and no snapshot.
func ReadBackup(r io.Reader) (allowance.Snapshot, error) {
	var doc backupDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return allowance.Snapshot{}, fmt.Errorf("%w: %v", generic.ErrInvalidBackup, err)
	}
	if doc.Version != BackupVersion {
		return allowance.Snapshot{}, fmt.Errorf("%w: unsupported version %q", generic.ErrInvalidBackup, doc.Version)
	}

	snap := allowance.Snapshot{
		Profile: allowance.Profile{
			FirstName: strings.TrimSpace(doc.User.FirstName.Text),
			LastName:  strings.TrimSpace(doc.User.LastName.Text),
		},
	}

	if err := decodeBlob(doc.Data.FinancialData.Text, "{}", &snap.Financial); err != nil {
		return allowance.Snapshot{}, fmt.Errorf("%w: financial data: %v", generic.ErrInvalidBackup, err)
	}
	if err := decodeBlob(doc.Data.CalculatedShifts.Text, "[]", &snap.Shifts); err != nil {
		return allowance.Snapshot{}, fmt.Errorf("%w: shifts: %v", generic.ErrInvalidBackup, err)
	}
	for _, s := range snap.Shifts {
		if s.ID == "" || s.Date.IsZero() {
			return allowance.Snapshot{}, fmt.Errorf("%w: shift without id or date", generic.ErrInvalidBackup)
		}
	}
	return snap, nil
}

// decodeBlob decodes a JSON blob; blank text means empty.
func decodeBlob(text, empty string, dst any) error {
	text = strings.TrimSpace(text)
	if text == "" {
		text = empty
	}
	return json.Unmarshal([]byte(text), dst)
}
