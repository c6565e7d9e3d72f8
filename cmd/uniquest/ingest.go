package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/uniquest/uniquest"
	"github.com/uniquest/uniquest/fs"
)

func (a *app) ingestCmd() *cobra.Command {
	var (
		dept     string
		docType  string
		language string
		anyType  bool
	)
	cmd := &cobra.Command{
		Use:   "ingest <file|glob>...",
		Short: "Upload documents for indexing",
		Long: `Upload documents so their contents can be used to answer questions.
Arguments are file paths or doublestar globs. Only PDF files are accepted
unless --any-type is set. Files over 50MB are rejected before upload.`,
		Example: `  $ uniquest ingest handbook.pdf
  $ uniquest ingest 'circulars/**/*.pdf' --dept Finance`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exts := a.cfg.Upload.Extensions
			if anyType {
				exts = nil
			}
			sel, err := fs.Select(args, fs.WithExtensions(exts...))
			if err != nil {
				return err
			}
			for _, s := range sel.Skipped {
				printWarning(a.stderr, "skipped %s: %s", s.Path, s.Reason)
			}
			if len(sel.Files) == 0 {
				return errors.New("no files to upload")
			}

			if dept != "" {
				a.cfg.Upload.Dept = dept
			}
			if docType != "" {
				a.cfg.Upload.DocumentType = docType
			}
			if language != "" {
				a.cfg.Upload.Language = language
			}
			up := a.uploader()

			failed := 0
			for _, path := range sel.Files {
				f, err := fs.Read(path)
				if err != nil {
					failed++
					if errors.Is(err, uniquest.ErrFileTooLarge) {
						printError(a.stderr, "%s: %s", path, uniquest.FileTooLargeText)
					} else {
						printError(a.stderr, "%s: %v", path, err)
					}
					continue
				}
				if err := up.Select(f); err != nil {
					return err
				}
				_, err = up.Submit(cmd.Context())
				if errors.Is(err, uniquest.ErrUnauthenticated) {
					return err
				}
				status, msg := up.Status()
				if status != uniquest.StatusSuccess {
					failed++
					printError(a.stderr, "%s: %s", path, msg)
					continue
				}
				printSuccess(a.stdout, "%s", msg)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d uploads failed", failed, len(sel.Files))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dept, "dept", "", "department (default from config)")
	cmd.Flags().StringVar(&docType, "type", "", "document type (default from config)")
	cmd.Flags().StringVar(&language, "language", "", "document language (default from config)")
	cmd.Flags().BoolVar(&anyType, "any-type", false, "accept files of any type")
	return cmd
}
