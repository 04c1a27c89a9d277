package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/audiopool/internal/blob"
)

var (
	blobDir     string
	blobMaxSize string
	blobMime    string

	blobCmd = &cobra.Command{
		Use:   "blob",
		Short: "Manage the local blob store",
		Long: paragraph(fmt.Sprintf(
			"\nStash encoded audio payloads in a local %s store and refer to them with %s URIs.",
			keyword("compressed"), keyword("blob://"),
		)),
	}

	blobPutCmd = &cobra.Command{
		Use:   "put NAME FILE",
		Short: "Store a file as a named blob",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return fmt.Errorf("unable to open file: %w", err)
			}

			store, err := openBlobStore()
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			uri, err := store.Put(args[0], data, blobMime)
			if err != nil {
				return err
			}
			fmt.Println(uri)
			return nil
		},
	}

	blobGetCmd = &cobra.Command{
		Use:   "get NAME",
		Short: "Write a blob's payload to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := openBlobStore()
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			data, err := store.Get(args[0])
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		},
	}

	blobLsCmd = &cobra.Command{
		Use:   "ls",
		Short: "List stored blobs",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			store, err := openBlobStore()
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			for _, e := range store.List() {
				ct := e.ContentType
				if ct == "" {
					ct = "-"
				}
				fmt.Printf("%-30s %10s %-20s %s\n",
					e.URI(),
					humanize.Bytes(uint64(e.Size)),
					ct,
					humanize.Time(e.CreatedAt))
			}
			return nil
		},
	}

	blobRmCmd = &cobra.Command{
		Use:   "rm NAME",
		Short: "Remove a blob",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := openBlobStore()
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			return store.Delete(args[0])
		},
	}
)

func init() {
	blobCmd.PersistentFlags().StringVar(&blobDir, "store-dir", "", "blob store directory (default: user data dir)")
	blobCmd.PersistentFlags().StringVar(&blobMaxSize, "max-size", "100MB", "store capacity")
	blobPutCmd.Flags().StringVar(&blobMime, "mime", "audio/pcm", "content type recorded with the blob")

	blobCmd.AddCommand(blobPutCmd, blobGetCmd, blobLsCmd, blobRmCmd)
}

func openBlobStore() (*blob.Store, error) {
	dir := blobDir
	if dir == "" {
		scope := gap.NewScope(gap.User, "audiopool")
		var err error
		dir, err = scope.DataPath("blobs")
		if err != nil {
			return nil, fmt.Errorf("unable to resolve blob store directory: %w", err)
		}
	}

	capacity, err := humanize.ParseBytes(blobMaxSize)
	if err != nil {
		return nil, fmt.Errorf("invalid --max-size: %w", err)
	}

	return blob.Open(dir, int64(capacity))
}
