package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"pair-chat/repositories"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	// Empty prefix dumps every key, index entries included
	prefix := flag.String("prefix", "", "Prefix to scan (conversation:, msg:, user:, pair:, member:)")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Timestamp", "Entity ID", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	counts := make(map[string]int)
	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())
			err := item.Value(func(v []byte) error {
				rec := repositories.DescribeRecord(key, v)
				counts[rec.Type]++
				table.Append([]string{rec.Key, paint(rec.Type), rec.Timestamp, rec.EntityID, rec.Detail})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
	summary := make([]string, 0, len(counts))
	for t, n := range counts {
		summary = append(summary, fmt.Sprintf("%s=%d", t, n))
	}
	fmt.Println(color.New(color.OpBold).Render(strings.Join(summary, " ")))
}

func paint(recordType string) string {
	switch recordType {
	case "CONVERSATION":
		return color.New(color.FgCyan).Render(recordType)
	case "MESSAGE":
		return color.New(color.FgGreen).Render(recordType)
	case "USER":
		return color.New(color.FgYellow).Render(recordType)
	case "RAW":
		return color.New(color.FgRed).Render(recordType)
	default:
		return color.New(color.FgGray).Render(recordType)
	}
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true)

	db, err := badger.Open(opts)
	if err != nil {
		// A crashed writer leaves a vlog that read-only mode refuses to truncate
		if strings.Contains(err.Error(), "Log truncate required") {
			fmt.Println("Truncating value log before read-only open")
			repairOpts := badger.DefaultOptions(path).WithLogger(nil).WithBypassLockGuard(true)
			db, err = badger.Open(repairOpts)
			if err != nil {
				return nil, fmt.Errorf("repair failed: %w", err)
			}
			_ = db.Close()
			return badger.Open(opts)
		}
		return nil, err
	}
	return db, nil
}
