package models

// MConfig Structure
type MConfig struct {
	Name      string           `yaml:"name"`
	Host      string           `yaml:"host"`
	Port      int              `yaml:"port"`
	LogLevel  string           `yaml:"log_level"`
	Storage   MStorageConfig   `yaml:"storage"`
	Dashboard MDashboardConfig `yaml:"dashboard"`
}

type MStorageConfig struct {
	DBType             string `yaml:"db_type"`
	DBPath             string `yaml:"db_path"`
	DBConnectionString string `yaml:"db_connection_string"`
	RetentionDays      int    `yaml:"retention_days"`
}

type MDashboardConfig struct {
	Symbols                []string `yaml:"symbols"`
	Indices                []string `yaml:"indices"`
	Period                 string   `yaml:"period"`
	RefreshIntervalSeconds int      `yaml:"refresh_interval_seconds"`
	ConcurrentSnapshots    int      `yaml:"concurrent_snapshots"`
	HistoryPoints          int      `yaml:"history_points"`
	MaxComparisonPoints    int      `yaml:"max_comparison_points"`
}
