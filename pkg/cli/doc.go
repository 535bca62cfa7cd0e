/*
Package cli provides command-line helpers for the symc command.

Output Formatting:

Command results are rendered as text, JSON, YAML or CSV. Values that
implement Table render as aligned columns in text mode and as records in
CSV mode:

	formatter, err := cli.NewFormatter(cli.FormatJSON)
	if err != nil {
		return err
	}
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Progress Reporting:

Batch conversions draw a bar on stderr that counts cached and failed
entries:

	progress := cli.NewBatchProgress(os.Stderr, "exprs.yaml")
	progress.Start(len(items))
	for _, it := range items {
		progress.Record(it.Cached, it.Error != "")
	}
	progress.Finish()

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
