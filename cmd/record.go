// File: cmd/record.go
package cmd

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/hfadhel/tawseel-cli/api/schemas"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// recordFlags collects the delivery record from the command line. A JSON
// file provides the base values, individual flags override field by field.
type recordFlags struct {
	file        string
	code        string
	senderName  string
	phoneNumber string
	province    string
	price       string
	companyName string
	notes       string
}

func addRecordFlags(cmd *cobra.Command, rf *recordFlags) {
	flags := cmd.Flags()
	flags.StringVar(&rf.file, "record", "", "JSON file holding the delivery record")
	flags.StringVar(&rf.code, "code", "", "order or voucher code")
	flags.StringVar(&rf.senderName, "sender", "", "sender name")
	flags.StringVar(&rf.phoneNumber, "phone", "", "customer phone number")
	flags.StringVar(&rf.province, "province", "", "destination province")
	flags.StringVar(&rf.price, "price", "", "collection amount")
	flags.StringVar(&rf.companyName, "company", "", "merchant company name")
	flags.StringVar(&rf.notes, "notes", "", "delivery notes")
}

func (rf *recordFlags) load() (schemas.Record, error) {
	var record schemas.Record
	if rf.file != "" {
		data, err := os.ReadFile(rf.file)
		if err != nil {
			return record, fmt.Errorf("reading record file: %w", err)
		}
		if err := json.Unmarshal(data, &record); err != nil {
			return record, fmt.Errorf("parsing record file %s: %w", rf.file, err)
		}
	}

	overlay := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	overlay(&record.Code, rf.code)
	overlay(&record.SenderName, rf.senderName)
	overlay(&record.PhoneNumber, rf.phoneNumber)
	overlay(&record.Province, rf.province)
	overlay(&record.Price, rf.price)
	overlay(&record.CompanyName, rf.companyName)
	overlay(&record.Notes, rf.notes)

	if record.IsEmpty() {
		return record, fmt.Errorf("the record is empty; pass --record or field flags")
	}
	return record, nil
}

// loadRecordList reads a JSON array of records for batch deployments.
func loadRecordList(path string) ([]schemas.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading records file: %w", err)
	}
	var records []schemas.Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing records file %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("records file %s is empty", path)
	}
	return records, nil
}
