package cli

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/yardcms/internal/backup"
	"github.com/spf13/cobra"
)

func NewExportCmd(deps *Deps) *cobra.Command {
	var (
		out  string
		toS3 bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "archive live content and history snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if (out == "") == !toS3 {
				return errors.New("exactly one of --out or --s3 is required")
			}

			return deps.withSession(cmd.Context(), func(s *session) error {
				var sink backup.Sink = backup.FileSink{Path: out}
				if toS3 {
					var err error
					sink, err = deps.NewS3Sink(cmd.Context(), backup.S3Config{
						User:         s.cfg.S3RootUser,
						Password:     s.cfg.S3RootPassword,
						Bucket:       s.cfg.S3Bucket,
						Region:       s.cfg.S3Region,
						BaseEndpoint: s.cfg.S3BaseEndpoint,
					})
					if err != nil {
						return err
					}
				}

				exporter := backup.NewExporter(s.content.Repository, s.content.History)
				loc, archive, err := backup.Export(cmd.Context(), exporter, sink)
				if err != nil {
					return err
				}
				fmt.Fprintf(deps.Out, "exported %d snapshot(s) to %s\n", len(archive.Snapshots), loc)
				if len(archive.Missing) > 0 {
					fmt.Fprintf(deps.Err, "warning: %d indexed snapshot(s) had expired\n", len(archive.Missing))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write the archive to this file")
	cmd.Flags().BoolVar(&toS3, "s3", false, "upload the archive to the configured S3 bucket")
	return cmd
}
