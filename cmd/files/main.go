package main

import (
	"fmt"
	"lanchat/infrastructure/storage"
	"lanchat/internal"
	"os"
	"strconv"

	"github.com/gabriel-vasile/mimetype"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
)

// Lists what the relay's file store holds. Run it while the relay is stopped
// when the badger backend is used, badger keeps an exclusive lock.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	store, err := storage.OpenFileStore(log, config.FileStore, config.FilesDir, config.BadgerFilepath)
	if err != nil {
		return fmt.Errorf("file store opening failed: %w", err)
	}
	defer store.Close()

	files, err := store.List()
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Size", "Type"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	for _, file := range files {
		kind := "?"
		if data, err := store.Get(file.Name); err == nil {
			kind = mimetype.Detect(data).String()
		}
		table.Append([]string{file.Name, strconv.FormatInt(file.Size, 10), kind})
	}
	table.Render()
	fmt.Printf("%d file(s) in %s store\n", len(files), config.FileStore)
	return nil
}
