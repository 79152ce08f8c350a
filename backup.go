package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pathakanu/myNotes/internal/backup"
	"github.com/pathakanu/myNotes/internal/database"
	"github.com/pathakanu/myNotes/internal/security"
	"github.com/spf13/cobra"
)

var (
	outputPath string
	inputPath  string
	importPIN  string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Export or import the settings backup document",
}

var settingsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every settings domain as one JSON document",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBase()
		if err != nil {
			return err
		}
		defer b.close()

		w, done, err := openOutput(outputPath)
		if err != nil {
			return err
		}
		defer done()
		return backup.NewSettings(b.registry, nil, b.logger).Export(cmd.Context(), w)
	},
}

var settingsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Merge a settings backup document into the current settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBase()
		if err != nil {
			return err
		}
		defer b.close()

		r, done, err := openInput(inputPath)
		if err != nil {
			return err
		}
		defer done()

		verifier := security.NewPINVerifier(b.cfg.LockPINHash)
		res, err := backup.NewSettings(b.registry, verifier, b.logger).Import(cmd.Context(), r, backup.ImportOptions{PIN: importPIN})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "applied: %v\nskipped: %v\n", res.Applied, res.Skipped)
		return nil
	},
}

var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Export or import notes with their reminders",
}

var notesExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every note and reminder as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBase()
		if err != nil {
			return err
		}
		defer b.close()

		w, done, err := openOutput(outputPath)
		if err != nil {
			return err
		}
		defer done()
		return notesBackup(b).Export(cmd.Context(), w)
	},
}

var notesImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Replace every note and reminder with a backup; a running server rearms on its next sweep",
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := openBase()
		if err != nil {
			return err
		}
		defer b.close()

		r, done, err := openInput(inputPath)
		if err != nil {
			return err
		}
		defer done()

		res, err := notesBackup(b).Import(cmd.Context(), r)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "notes: %d reminders: %d dropped: %d\n", res.Notes, res.Reminders, res.Dropped)
		return nil
	},
}

var hashPINCmd = &cobra.Command{
	Use:   "hash-pin [pin]",
	Short: "Print the bcrypt hash to use as LOCK_PIN_HASH",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hash, err := security.HashPIN(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), hash)
		return nil
	},
}

func init() {
	settingsExportCmd.Flags().StringVarP(&outputPath, "output", "o", "-", "output file, - for stdout")
	settingsImportCmd.Flags().StringVarP(&inputPath, "input", "i", "-", "input file, - for stdin")
	settingsImportCmd.Flags().StringVar(&importPIN, "pin", "", "PIN unlocking the lock and plugins domains")
	settingsCmd.AddCommand(settingsExportCmd, settingsImportCmd)

	notesExportCmd.Flags().StringVarP(&outputPath, "output", "o", "-", "output file, - for stdout")
	notesImportCmd.Flags().StringVarP(&inputPath, "input", "i", "-", "input file, - for stdin")
	notesCmd.AddCommand(notesExportCmd, notesImportCmd)

	rootCmd.AddCommand(settingsCmd, notesCmd, hashPINCmd)
}

func notesBackup(b *base) *backup.Notes {
	return backup.NewNotes(b.db, database.NewNoteRepository(b.db), database.NewReminderRepository(b.db), nil, b.logger)
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" || path == "-" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, func() { _ = f.Close() }, nil
}
