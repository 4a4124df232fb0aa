package sheets

// Config holds the spreadsheet backing the remote collections.
type Config struct {
	// SpreadsheetID is the ID from the spreadsheet URL.
	SpreadsheetID string `mapstructure:"spreadsheet_id" default:""`
	// CredentialsFile is the service account key file.
	CredentialsFile string `mapstructure:"credentials_file" default:"credentials.json"`
	// RequestsSheet is the form responses sheet.
	RequestsSheet string `mapstructure:"requests_sheet" default:"Whitelist Form Responses"`
	// WhitelistSheet is the whitelist sheet.
	WhitelistSheet string `mapstructure:"whitelist_sheet" default:"Whitelist"`
	// BanlistSheet is the ban list sheet.
	BanlistSheet string `mapstructure:"banlist_sheet" default:"Ban List"`
}
