package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	walacor "github.com/walacor/walacor-go"
	"github.com/walacor/walacor-go/client/s3client"
	"github.com/walacor/walacor-go/dto"
	"github.com/walacor/walacor-go/file"
	"github.com/walacor/walacor-go/relays"
)

func init() {
	filesVerifyCmd.Flags().Bool("store", false, "store the file when it is not a duplicate")
	filesVerifyCmd.Flags().Bool("progress", false, "print upload progress to stderr")
	filesListCmd.Flags().String("uid", "", "only list this file")
	filesListCmd.Flags().Int("page", 0, "page number")
	filesListCmd.Flags().Int("page-size", 0, "page size")
	filesDownloadCmd.Flags().StringP("out", "O", "", "destination file or folder")
	filesDownloadCmd.Flags().Bool("progress", false, "print download progress to stderr")

	for _, c := range []*cobra.Command{filesArchiveCmd, filesVerifyArchiveCmd} {
		c.Flags().String("bucket", "", "S3 bucket")
		c.Flags().String("key", "", "object key")
		c.Flags().String("region", "us-east-1", "S3 region")
		c.Flags().String("endpoint", "", "S3 compatible endpoint, enables path style addressing")
		_ = c.MarkFlagRequired("bucket")
	}
	_ = filesVerifyArchiveCmd.MarkFlagRequired("key")

	filesCmd.AddCommand(filesVerifyCmd, filesListCmd, filesDownloadCmd, filesArchiveCmd, filesVerifyArchiveCmd)
	rootCmd.AddCommand(filesCmd)
}

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "Verify, store and download files",
}

var filesVerifyCmd = &cobra.Command{
	Use:   "verify PATH",
	Short: "Verify a local file, optionally storing it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := fileService(cmd)
		if err != nil {
			return err
		}
		var opts []file.VerifyOption
		if progress, _ := cmd.Flags().GetBool("progress"); progress {
			opts = append(opts, file.WithUploadProgress())
			stop := followProgress(cmd, svc, filepath.Base(args[0]))
			defer stop()
		}
		res, err := svc.VerifyPath(cmd.Context(), args[0], opts...)
		if err != nil {
			return err
		}
		if res.IsDuplicate() {
			fmt.Fprintf(cmd.ErrOrStderr(), "file already stored as %v\n", res.Duplicate.UID)
			return printResult(cmd.OutOrStdout(), res.Duplicate)
		}
		if store, _ := cmd.Flags().GetBool("store"); !store {
			return printResult(cmd.OutOrStdout(), res.FileInfo)
		}
		stored, err := svc.Store(cmd.Context(), *res.FileInfo)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), stored)
	},
}

var filesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := file.DefaultListFilesOptions()
		opts.UID, _ = cmd.Flags().GetString("uid")
		opts.PageNo, _ = cmd.Flags().GetInt("page")
		opts.PageSize, _ = cmd.Flags().GetInt("page-size")

		svc, err := fileService(cmd)
		if err != nil {
			return err
		}
		list, err := svc.ListFiles(cmd.Context(), opts)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), list)
	},
}

var filesDownloadCmd = &cobra.Command{
	Use:   "download UID",
	Short: "Download a stored file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		progress, _ := cmd.Flags().GetBool("progress")

		svc, err := fileService(cmd)
		if err != nil {
			return err
		}
		if progress {
			stop := followProgress(cmd, svc, args[0])
			defer stop()
		}
		path, err := svc.Download(cmd.Context(), args[0], out)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var filesArchiveCmd = &cobra.Command{
	Use:   "archive UID",
	Short: "Copy a stored file into an S3 bucket",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := archiveService(cmd)
		if err != nil {
			return err
		}
		bucket, _ := cmd.Flags().GetString("bucket")
		key, _ := cmd.Flags().GetString("key")
		key, err = svc.ArchiveToS3(cmd.Context(), args[0], bucket, key)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "s3://%s/%s\n", bucket, key)
		return nil
	},
}

var filesVerifyArchiveCmd = &cobra.Command{
	Use:   "verify-archive",
	Short: "Verify a file previously archived to S3",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := archiveService(cmd)
		if err != nil {
			return err
		}
		bucket, _ := cmd.Flags().GetString("bucket")
		key, _ := cmd.Flags().GetString("key")
		res, err := svc.VerifyFromS3(cmd.Context(), bucket, key)
		if err != nil {
			return err
		}
		if res.IsDuplicate() {
			return printResult(cmd.OutOrStdout(), res.Duplicate)
		}
		return printResult(cmd.OutOrStdout(), res.FileInfo)
	},
}

// followProgress prints the transfer updates of source until the returned
// stop function is called.
func followProgress(cmd *cobra.Command, svc *file.Service, source string) func() {
	updates, unsub := svc.TransferListener(source)
	done := make(chan struct{})
	go func() {
		defer close(done)
		printProgress(cmd.ErrOrStderr(), updates)
	}()
	return func() {
		unsub()
		<-done
	}
}

func printProgress(w io.Writer, updates <-chan dto.TransferNotification) {
	for n := range updates {
		if n.TotalSize > 0 {
			fmt.Fprintf(w, "%s %5.1f%% (%d/%d bytes)\n", n.Status, n.Percentage, n.Downloaded, n.TotalSize)
		} else {
			fmt.Fprintf(w, "%s %d bytes\n", n.Status, n.Downloaded)
		}
		if n.IsTerminal() {
			return
		}
	}
}

func fileService(cmd *cobra.Command, opts ...walacor.Option) (*file.Service, error) {
	svc, err := newService(cmd, opts...)
	if err != nil {
		return nil, err
	}
	return svc.Files()
}

func archiveService(cmd *cobra.Command) (*file.Service, error) {
	store, err := newArchiveStore(cmd.Context(), cmd)
	if err != nil {
		return nil, err
	}
	return fileService(cmd, walacor.WithArchive(store))
}

func newArchiveStore(ctx context.Context, cmd *cobra.Command) (*s3client.S3Client, error) {
	region, _ := cmd.Flags().GetString("region")
	endpoint, _ := cmd.Flags().GetString("endpoint")
	cfg := s3client.DefaultS3ClientConfig(region)
	if endpoint != "" {
		cfg.WithEndpoint(endpoint, true)
	}
	cfg.WithMiddleware(s3client.StaticS3MetaMiddleware(map[string]string{"archived-by": "walacor-cli"}))
	if verbose {
		cfg.WithMiddleware(s3client.LoggingMiddleware(relays.NewZerologRelay(cmd.ErrOrStderr(), "debug", true)))
	}
	client, err := s3client.NewS3Client(ctx, &cfg)
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}
	return client, nil
}
