package config

// Application constants
const (
	AppName    = "surveycharts"
	AppVersion = "1.0.0"

	// Log file used when file output is enabled and no path is configured
	DefaultLogFile = "surveycharts.log"

	// Summary report file names
	SummaryCSVName  = "summary.csv"
	SummaryXLSXName = "summary.xlsx"
)
