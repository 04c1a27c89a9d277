package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgnsrekt/audiopool/pkg/codec"
)

var (
	encodeMime string
	decodeJSON bool

	encodeCmd = &cobra.Command{
		Use:   "encode [FILE]",
		Short: "Encode a payload as base64",
		Long: paragraph(fmt.Sprintf(
			"\nEncode a file (or stdin) as base64. With %s set, a data URL is emitted instead so the payload can be embedded directly.",
			keyword("--mime"),
		)),
		Example: paragraph("audiopool encode clip.pcm\naudiopool encode --mime audio/pcm clip.pcm\ncat clip.pcm | audiopool encode"),
		Args:    cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := readInput(args)
			if err != nil {
				return err
			}

			if encodeMime != "" {
				fmt.Println(codec.DataURL(data, encodeMime))
				return nil
			}
			fmt.Println(codec.EncodeBase64(data))
			return nil
		},
	}

	decodeCmd = &cobra.Command{
		Use:   "decode [FILE]",
		Short: "Decode a base64 payload",
		Long: paragraph(fmt.Sprintf(
			"\nDecode base64 (or a data URL) from a file or stdin and write the raw bytes to stdout. With %s, the decoded payload is parsed as JSON and pretty-printed.",
			keyword("--json"),
		)),
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			input, err := readInput(args)
			if err != nil {
				return err
			}

			text := strings.TrimSpace(string(input))

			var data []byte
			if strings.HasPrefix(text, "data:") {
				_, data, err = codec.ParseDataURL(text)
			} else {
				data, err = codec.DecodeBase64(text)
			}
			if err != nil {
				return err
			}

			if decodeJSON {
				value, err := codec.DecodeJSONBlob(bytes.NewReader(data))
				if err != nil {
					return err
				}
				pretty, err := json.MarshalIndent(value, "", "  ")
				if err != nil {
					return fmt.Errorf("unable to format JSON: %w", err)
				}
				fmt.Println(string(pretty))
				return nil
			}

			_, err = os.Stdout.Write(data)
			return err
		},
	}
)

func init() {
	encodeCmd.Flags().StringVar(&encodeMime, "mime", "", "emit a data URL with the given content type")
	decodeCmd.Flags().BoolVar(&decodeJSON, "json", false, "parse the decoded payload as JSON and pretty-print it")
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("unable to read from stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("unable to open file: %w", err)
	}
	return data, nil
}
