package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/code-payments/code-idl/pkg/coder"
	"github.com/code-payments/code-idl/pkg/idl"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect file.json",
	Short: "Print the entities and discriminators of an IDL document",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return err
	}

	document, err := idl.Parse(data)
	if err != nil {
		return err
	}
	programCoder, err := coder.New(document)
	if err != nil {
		return err
	}

	fmt.Printf("program: %s\n", document.Name)
	fmt.Printf("version: %s\n", document.Version)
	fmt.Printf("dialect: %s\n", document.Dialect())
	if document.Address != "" {
		fmt.Printf("address: %s\n", document.Address)
	}

	if names := programCoder.Accounts.Names(); len(names) > 0 {
		fmt.Println("\naccounts:")
		for _, name := range names {
			disc, _ := programCoder.Accounts.Discriminator(name)
			fmt.Printf("  %-32s %s\n", name, hex.EncodeToString(disc))
		}
	}

	if names := programCoder.Instructions.Names(); len(names) > 0 {
		fmt.Println("\ninstructions:")
		for _, name := range names {
			disc, _ := programCoder.Instructions.Discriminator(name)
			fmt.Printf("  %-32s %s\n", name, hex.EncodeToString(disc))

			accounts, _ := programCoder.Instructions.Accounts(name)
			for _, meta := range accounts {
				flags := ""
				if meta.Writable {
					flags += " writable"
				}
				if meta.Signer {
					flags += " signer"
				}
				if meta.Optional {
					flags += " optional"
				}
				fmt.Printf("    %-30s%s\n", meta.Name, flags)
			}
		}
	}

	if names := programCoder.Events.Names(); len(names) > 0 {
		fmt.Println("\nevents:")
		for _, name := range names {
			fmt.Printf("  %s\n", name)
		}
	}

	if len(document.Errors) > 0 {
		fmt.Println("\nerrors:")
		for _, errCode := range document.Errors {
			fmt.Printf("  %d %-32s %s\n", errCode.Code, errCode.Name, errCode.Msg)
		}
	}

	return nil
}
