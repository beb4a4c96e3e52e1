package domain

import "fmt"

type ProfileType string

const (
	ProfileTypeDuckDB     ProfileType = "duckdb"
	ProfileTypePostgres   ProfileType = "postgres"
	ProfileTypeSnowflake  ProfileType = "snowflake"
	ProfileTypeDatabricks ProfileType = "databricks"
)

// SourceProfile names a booking data source and how to reach it.
type SourceProfile struct {
	Name     string
	Type     ProfileType
	Settings map[string]string
}

func (c SourceProfile) String() string {
	return fmt.Sprintf("%s:%s", c.Type, c.Name)
}

func (c SourceProfile) Setting(key, fallback string) string {
	if v, ok := c.Settings[key]; ok && v != "" {
		return v
	}
	return fallback
}
