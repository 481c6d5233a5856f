/*
Package cli provides command-line helpers shared by the lovepaws commands.

Output Formatting:

Commands that print structured results support text and JSON output:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, info); err != nil {
		return err
	}

Status lines use a check mark prefix:

	cli.PrintCheck(os.Stdout, "Configuration valid")

Signals:

SetupSignalHandler returns a context cancelled on SIGINT or SIGTERM, which
the run command passes to the server for graceful shutdown.

Errors:

ConfigError and CommandError wrap failures with the command or field that
produced them. ExitCode maps any error to a process exit status.
*/
package cli
