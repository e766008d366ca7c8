package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/lox/holdemtracker/internal/display"
	"github.com/lox/holdemtracker/internal/snapshot"
)

// ValidateCmd checks a snapshot document against its schema.
type ValidateCmd struct {
	Kind string `arg:"" help:"Document kind: card, hand, board, board_detailed, round_action, round or game"`
	File string `arg:"" type:"existingfile" help:"JSON document to validate"`
}

func (c *ValidateCmd) Run(globals *Globals) error {
	v, err := snapshot.NewValidator()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(c.File)
	if err != nil {
		return err
	}

	if err := v.Validate(c.Kind, data); err != nil {
		fmt.Println(display.ErrorStyle.Render("invalid " + c.Kind))
		return fmt.Errorf("%s: %w (kinds: %s)", c.File, err, strings.Join(v.Kinds(), ", "))
	}
	fmt.Println(display.SuccessStyle.Render("valid " + c.Kind))
	return nil
}
