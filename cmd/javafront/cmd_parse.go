package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dhamidi/javafront/diag"
	"github.com/dhamidi/javafront/format"
	"github.com/dhamidi/javafront/java/parser"
	"github.com/dhamidi/javafront/java/token"
)

func newTokensCmd() *cobra.Command {
	var opts optionFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the public token stream of a Java file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := opts.resolve()
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read java file: %w", err)
			}
			sc, err := token.NewScanner(token.Lex(data, args[0], o))
			if err != nil {
				return err
			}
			toks, scanErr := sc.All()

			var enc format.Encoder[[]token.Token] = format.NewTokenLineEncoder(cmd.OutOrStdout())
			if asJSON {
				enc = format.NewTokenJSONEncoder(cmd.OutOrStdout())
			}
			if err := enc.Encode(toks); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return scanErr
		},
	}
	opts.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print tokens as JSON")
	return cmd
}

func newParseCmd() *cobra.Command {
	var opts optionFlags
	var asJSON bool
	var includeComments bool
	var includePositions bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a Java file and dump the syntax tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := opts.resolve()
			if err != nil {
				return err
			}
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read java file: %w", err)
			}

			bag := diag.NewBag(o)
			file := diag.NewFile(filename, data)
			bag.AddFile(file)
			popts := []parser.Option{parser.WithFile(filename), parser.WithOptions(o), parser.WithReporter(bag)}
			if includeComments {
				popts = append(popts, parser.WithComments())
			}
			if includePositions {
				popts = append(popts, parser.WithPositions())
			}
			p := parser.ParseCompilationUnit(bytes.NewReader(data), popts...)
			node := p.Finish()
			if node == nil {
				return fmt.Errorf("parse java file: incomplete or invalid syntax")
			}

			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				if err := format.NewASTJSONEncoder(out).Encode(node); err != nil {
					return fmt.Errorf("encode json: %w", err)
				}
			case p.IncludesPositions():
				fmt.Fprintln(out, node.StringWithPositions())
			default:
				fmt.Fprintln(out, node.String())
			}

			if items := bag.Items(); len(items) > 0 {
				diag.Render(cmd.ErrOrStderr(), bag.Files(), items)
				if bag.HasErrors() {
					return errFailed
				}
			}
			return nil
		},
	}
	opts.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the tree as JSON")
	cmd.Flags().BoolVar(&includeComments, "comments", false, "keep comments in the tree")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "print node positions")
	return cmd
}
