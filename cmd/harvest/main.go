package main

import (
	"fmt"
	"os"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
	ExitInvalidArgs  = 2
	ExitInputError   = 3
	ExitOutputError  = 4
	ExitStorageError = 5
	ExitVerifyFailed = 6
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return ExitInvalidArgs
	}

	command := args[0]
	cmdArgs := args[1:]

	switch command {
	case "fetch":
		return runFetch(cmdArgs)
	case "fasta":
		return runFasta(cmdArgs)
	case "newick":
		return runNewick(cmdArgs)
	case "relabel":
		return runRelabel(cmdArgs)
	case "verify":
		return runVerify(cmdArgs)
	case "archive":
		return runArchive(cmdArgs)
	case "help", "-h", "--help":
		printUsage()
		return ExitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		return ExitInvalidArgs
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: harvest <command> [options]

Commands:
  fetch     Download accession payloads into a resumable output directory
  fasta     Extract sequences from the record log into FASTA
  newick    Convert a Nexus tree file to Newick
  relabel   Rewrite pipe-delimited tree labels into annotation comments
  verify    Cross-check the output directory's ledgers and record log
  archive   Upload the output directory to an object-storage bucket

Run 'harvest <command> -h' for command-specific help.`)
}
