package main

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math/big"
	"os"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/code-payments/code-idl/pkg/borsh"
	"github.com/code-payments/code-idl/pkg/coder"
	"github.com/code-payments/code-idl/pkg/idl"
)

var decodeCmd = &cobra.Command{
	Use:   "decode kind file.json data",
	Short: "Decode discriminator-framed wire data against an IDL document",
	Long:  "Decode parses account, instruction or event bytes. Kind is one of account, instruction, event; data is base64 unless --encoding says otherwise.",
	Args:  cobra.ExactArgs(3),
	RunE:  runDecode,
}

func init() {
	decodeCmd.Flags().String("encoding", "base64", "data encoding (base64|hex|base58)")
}

func runDecode(cmd *cobra.Command, args []string) error {
	raw, err := os.ReadFile(args[1])
	if err != nil {
		return err
	}
	document, err := idl.Parse(raw)
	if err != nil {
		return err
	}
	programCoder, err := coder.New(document)
	if err != nil {
		return err
	}

	encoding, _ := cmd.Flags().GetString("encoding")
	data, err := decodeInput(args[2], encoding)
	if err != nil {
		return err
	}

	var name string
	var value interface{}
	switch args[0] {
	case "account":
		decoded, err := programCoder.Accounts.Decode(data)
		if err != nil {
			return err
		}
		name, value = decoded.Name, decoded.Data
	case "instruction":
		decoded, err := programCoder.Instructions.Decode(data)
		if err != nil {
			return err
		}
		name, value = decoded.Name, decoded.Args
	case "event":
		decoded, err := programCoder.Events.Decode(data)
		if err != nil {
			return err
		}
		if decoded == nil {
			fmt.Println("no matching event")
			return nil
		}
		name, value = decoded.Name, decoded.Data
	default:
		return errors.Errorf("unknown kind %q (want account, instruction or event)", args[0])
	}

	rendered, err := json.MarshalIndent(map[string]interface{}{
		"name": name,
		"data": renderValue(value),
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(rendered))
	return nil
}

func decodeInput(data, encoding string) ([]byte, error) {
	switch encoding {
	case "base64":
		return base64.StdEncoding.DecodeString(data)
	case "hex":
		return hex.DecodeString(data)
	case "base58":
		return base58.Decode(data)
	default:
		return nil, errors.Errorf("unknown encoding %q", encoding)
	}
}

// renderValue converts decoded values into JSON-friendly shapes: public
// keys and raw bytes render as base58, enums as {variant, fields}.
func renderValue(v interface{}) interface{} {
	switch val := v.(type) {
	case ed25519.PublicKey:
		return base58.Encode(val)
	case []byte:
		return base58.Encode(val)
	case *big.Int:
		return val.String()
	case borsh.EnumValue:
		out := map[string]interface{}{"variant": val.Name}
		if val.Fields != nil {
			out["fields"] = renderValue(val.Fields)
		}
		return out
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, item := range val {
			out[k] = renderValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = renderValue(item)
		}
		return out
	default:
		return v
	}
}
