package config

// Application constants - all hardcoded values for the ride pipeline
const (
	// Application Info
	AppName    = "Ride Pulse"
	AppVersion = "1.0.0"

	// Ride-length quality bounds, in minutes. Cleaned records satisfy
	// MinRideLengthMinutes < ride_length < MaxRideLengthMinutes (both
	// bounds exclusive). Fixed policy, not configuration.
	MinRideLengthMinutes = 1.0
	MaxRideLengthMinutes = 1440.0

	// Extract File Matching
	ExtractFilePattern = `(?i).*\.(csv|xlsx|xls)$`

	// Artifact Files (written into the reports directory)
	CleanedDataCSV     = "rides_cleaned.csv"
	CleanedDataParquet = "rides_cleaned.parquet"
	RunManifestJSON    = "run_manifest.json"

	// Aggregate report files
	SegmentSummaryCSV = "segment_summary.csv"
	WeekdayCountsCSV  = "rides_by_weekday.csv"
	HourCountsCSV     = "rides_by_start_hour.csv"
	MonthCountsCSV    = "rides_by_month.csv"

	// Chart image files, one per aggregate view
	ChartSegmentSummaryPNG = "01_avg_ride_length_by_segment.png"
	ChartWeekdayCountsPNG  = "02_rides_by_weekday.png"
	ChartHourCountsPNG     = "03_rides_by_start_hour.png"
	ChartMonthCountsPNG    = "04_rides_by_month.png"

	// File Paths (relative to executable)
	DefaultDataDir     = "data"
	DefaultLogsDir     = "logs"
	DefaultExtractsDir = "data/extracts"
	DefaultReportsDir  = "data/reports"
	DefaultChartsDir   = "data/charts"

	// Log Settings
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "json"
	MaxLogFileSizeMB  = 100
	MaxLogFileAge     = 30 // days
	MaxLogFileBackups = 10
)
