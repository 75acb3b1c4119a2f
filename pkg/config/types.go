package config

type Config struct {
	// Cron spec for repeated runs
	UpdateFrequency string           `json:"updateFrequency" validate:"required"`
	Ledger          string           `json:"ledger" validate:"oneof=lunchmoney postgres"`
	Venmo           VenmoConfig      `json:"venmo"`
	LunchMoney      LunchMoneyConfig `json:"lunchMoney"`
	SQL             SQLConfig        `json:"sql"`
	Influx          InfluxConfig     `json:"influx"`
}

type Secrets struct {
	Venmo      VenmoSecrets      `json:"venmo"`
	LunchMoney LunchMoneySecrets `json:"lunchMoney"`
	Influx     InfluxSecrets     `json:"influx"`
	SQL        SqlSecrets        `json:"sql"`

	// Altternative to Sql struct, designed to be used with heroku env variable
	DatabaseURL string `json:"databaseUrl" env:"DATABASE_URL"`
}

///////////////////////////////////////////////////////////////////////////////////////
// Venmo
///////////////////////////////////////////////////////////////////////////////////////

type VenmoConfig struct {
	ProfileID uint64 `json:"profileId" validate:"required"`
	// ISO code of the currency the Venmo account is kept in
	Currency     string `json:"currency" validate:"required,len=3,currency"`
	LookbackDays int    `json:"lookbackDays" validate:"min=1,max=365"`
	BaseURL      string `json:"baseUrl" validate:"omitempty,url"`
}

type VenmoSecrets struct {
	APIToken string `json:"apiToken" env:"VENMO_API_TOKEN"`
}

///////////////////////////////////////////////////////////////////////////////////////
// Lunch Money
///////////////////////////////////////////////////////////////////////////////////////

type LunchMoneyConfig struct {
	// AssetID wins over AssetName when both are set
	AssetID            int64  `json:"assetId" validate:"required_without=AssetName"`
	AssetName          string `json:"assetName" validate:"required_without=AssetID"`
	BatchSize          int    `json:"batchSize" validate:"min=1,max=500"`
	ApplyRules         bool   `json:"applyRules"`
	CheckForRecurring  bool   `json:"checkForRecurring"`
	BaseURL            string `json:"baseUrl" validate:"omitempty,url"`
	HTTPTimeoutSeconds int    `json:"httpTimeoutSeconds" validate:"min=1"`
}

type LunchMoneySecrets struct {
	AccessToken string `json:"accessToken" env:"LUNCH_MONEY_ACCESS_TOKEN"`
}

///////////////////////////////////////////////////////////////////////////////////////
// Sinks
///////////////////////////////////////////////////////////////////////////////////////

type SQLConfig struct {
	Database     string `json:"database"`
	EntriesTable string `json:"entriesTable"`
}

type InfluxConfig struct {
	Database    string `json:"database"`
	Measurement string `json:"measurement"`
}

type InfluxSecrets struct {
	InfluxEndpoint string `json:"influxEndpoint" env:"INFLUX_ENDPOINT"`
	InfluxUsername string `json:"influxUsername" env:"INFLUX_USERNAME"`
	InfluxPassword string `json:"influxPassword" env:"INFLUX_PASSWORD"`
}

type SqlSecrets struct {
	SqlHost     string `json:"sqlHost" env:"SQL_HOST"`
	SqlUsername string `json:"sqlUsername" env:"SQL_USERNAME"`
	SqlPassword string `json:"sqlPassword" env:"SQL_PASSWORD"`
}
