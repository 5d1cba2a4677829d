package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	BaseURL     string
	DatabaseDSN string

	AccessSecret string

	KafkaBroker   string
	KafkaTopic    string
	KafkaUsername string
	KafkaPassword string

	CloudinaryUrl string

	OpenAIApiKey string

	AirtableBaseID string
	AirtableApiKey string

	DocuSignClientID     string
	DocuSignClientSecret string
	DocuSignAccountID    string
	DocuSignEnvironment  string

	SheetsSpreadsheetID string
	SheetsClientEmail   string
	SheetsPrivateKey    string

	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	MailFromName string

	ConsentRecordsDir string
}

func LoadConfig() Config {
	if os.Getenv("ENV") != "prod" {
		if err := godotenv.Overload(); err != nil {
			log.Println("Warning: .env not loaded:", err)
		}
	}

	return Config{
		ServerPort:  os.Getenv("SERVER_PORT"),
		BaseURL:     os.Getenv("BASE_URL"),
		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		AccessSecret: os.Getenv("ACCESS_SECRET"),

		KafkaBroker:   os.Getenv("KAFKA_BROKER"),
		KafkaTopic:    os.Getenv("KAFKA_TOPIC"),
		KafkaUsername: os.Getenv("KAFKA_USERNAME"),
		KafkaPassword: os.Getenv("KAFKA_PASSWORD"),

		CloudinaryUrl: os.Getenv("CLOUDINARY_URL"),

		OpenAIApiKey: os.Getenv("OPENAI_API_KEY"),

		AirtableBaseID: os.Getenv("AIRTABLE_BASE_ID"),
		AirtableApiKey: os.Getenv("AIRTABLE_API_KEY"),

		DocuSignClientID:     os.Getenv("DOCUSIGN_CLIENT_ID"),
		DocuSignClientSecret: os.Getenv("DOCUSIGN_CLIENT_SECRET"),
		DocuSignAccountID:    os.Getenv("DOCUSIGN_ACCOUNT_ID"),
		DocuSignEnvironment:  os.Getenv("DOCUSIGN_ENVIRONMENT"),

		SheetsSpreadsheetID: os.Getenv("GOOGLE_SHEETS_ID"),
		SheetsClientEmail:   os.Getenv("GOOGLE_SERVICE_ACCOUNT_EMAIL"),
		SheetsPrivateKey:    os.Getenv("GOOGLE_SERVICE_ACCOUNT_PRIVATE_KEY"),

		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASS"),
		MailFrom:     os.Getenv("MAIL_FROM"),
		MailFromName: os.Getenv("MAIL_FROM_NAME"),

		ConsentRecordsDir: os.Getenv("CONSENT_RECORDS_DIR"),
	}
}
