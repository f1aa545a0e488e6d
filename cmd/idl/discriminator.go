package main

import (
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/code-payments/code-idl/pkg/coder"
)

var discriminatorCmd = &cobra.Command{
	Use:   "discriminator namespace name",
	Short: "Derive the 8-byte discriminator for a namespaced name",
	Long:  "Derive computes sha256(\"namespace:name\")[:8]. Valid namespaces are account, global and event.",
	Args:  cobra.ExactArgs(2),
	RunE:  runDiscriminator,
}

func runDiscriminator(cmd *cobra.Command, args []string) error {
	var ns coder.Namespace
	switch args[0] {
	case "account":
		ns = coder.NamespaceAccount
	case "global":
		ns = coder.NamespaceInstruction
	case "event":
		ns = coder.NamespaceEvent
	default:
		return errors.Errorf("unknown namespace %q (want account, global or event)", args[0])
	}

	disc := coder.Derive(ns, args[1])
	fmt.Printf("hex:   %s\n", hex.EncodeToString(disc))
	fmt.Printf("bytes: %v\n", []byte(disc))
	return nil
}
