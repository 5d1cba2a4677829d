package api

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/yulclaims/claim_service/config"
	"github.com/yulclaims/claim_service/infra/queue"
	"github.com/yulclaims/claim_service/internal/api/rest/handlers"
	"github.com/yulclaims/claim_service/internal/clients/airtable"
	"github.com/yulclaims/claim_service/internal/clients/docusign"
	"github.com/yulclaims/claim_service/internal/clients/mail"
	"github.com/yulclaims/claim_service/internal/clients/openai"
	"github.com/yulclaims/claim_service/internal/clients/sheets"
	"github.com/yulclaims/claim_service/internal/consent"
	"github.com/yulclaims/claim_service/internal/domain"
	"github.com/yulclaims/claim_service/internal/helper"
	"github.com/yulclaims/claim_service/internal/repository"
	"github.com/yulclaims/claim_service/internal/services"
	"github.com/yulclaims/claim_service/pkg/cloudinary"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func StartServer(cfg config.Config) {
	app := fiber.New()

	// ---------- CORS ----------
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.BaseURL,
		AllowHeaders:     "Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// ---------- DB ----------
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Println("database connected")

	// ---------- MIGRATION + SEED (guarded by advisory lock) ----------
	const migrateLockID int64 = 20260515

	if err := db.Exec("SELECT pg_advisory_lock(?)", migrateLockID).Error; err != nil {
		log.Fatalf("migration lock error: %v", err)
	}
	defer func() {
		_ = db.Exec("SELECT pg_advisory_unlock(?)", migrateLockID).Error
	}()

	if err := db.AutoMigrate(
		&domain.User{},
		&domain.UserConsent{},
		&domain.Claim{},
		&domain.Payment{},
		&domain.FaqItem{},
		&domain.AuditLog{},
	); err != nil {
		log.Fatalf("migration error: %v", err)
	}
	log.Println("migration successful")

	seedFaqs(db)

	// ---------- Infra ----------
	kafkaProducer := queue.NewProducer(
		cfg.KafkaBroker,
		cfg.KafkaTopic,
		cfg.KafkaUsername,
		cfg.KafkaPassword,
	)
	cld, err := cloudinary.New()
	if err != nil {
		log.Fatalf("cloudinary init error: %v", err)
	}
	up := cloudinary.NewCloudinaryUploader(cld)

	recorder, err := consent.NewRecorder(cfg.ConsentRecordsDir)
	if err != nil {
		log.Fatalf("consent recorder init error: %v", err)
	}

	assessor := openai.New(cfg.OpenAIApiKey)
	crm := airtable.New(cfg.AirtableBaseID, cfg.AirtableApiKey)
	signer := docusign.New(
		cfg.DocuSignClientID,
		cfg.DocuSignClientSecret,
		cfg.DocuSignAccountID,
		cfg.DocuSignEnvironment,
		cfg.BaseURL+"/api/docusign/callback",
	)
	exporter := sheets.New(cfg.SheetsSpreadsheetID, cfg.SheetsClientEmail, cfg.SheetsPrivateKey)
	mailer := mail.NewService(cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom, cfg.MailFromName)

	authHelper := helper.SetupAuth(cfg.AccessSecret)

	// ---------- Repositories ----------
	claimRepo := repository.NewClaimRepository(db)
	userRepo := repository.NewUserRepository(db)
	faqRepo := repository.NewFaqRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	consentRepo := repository.NewConsentRepository(db)

	// ---------- Services ----------
	userSvc := services.NewUserService(userRepo, consentRepo, auditRepo, recorder, authHelper)
	claimSvc := services.NewClaimService(
		claimRepo,
		paymentRepo,
		auditRepo,
		assessor,
		crm,
		mailer,
		signer,
		exporter,
		up,
		recorder,
		kafkaProducer,
	)
	faqSvc := services.NewFaqService(faqRepo, assessor)

	// ---------- Handlers ----------
	handlers.NewUserHandler(userSvc, authHelper).SetupRoutes(app)
	handlers.NewClaimHandler(claimSvc, userSvc, authHelper).SetupRoutes(app)
	handlers.NewFaqHandler(faqSvc, userSvc, authHelper).SetupRoutes(app)

	// ---------- Health ----------
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// ---------- Listen ----------
	addr := cfg.ServerPort
	log.Println("listening on", addr)
	log.Fatal(app.Listen(addr))
}

func seedFaqs(db *gorm.DB) {
	var count int64
	if err := db.Model(&domain.FaqItem{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	seeds := []domain.FaqItem{
		{Question: "How much does your service cost?", Answer: "We charge a 15% commission only when your claim succeeds. No upfront fees.", Category: "fees", Order: 1, IsActive: true},
		{Question: "How much compensation can I get?", Answer: "Under the APPR, compensation ranges from $125 to $1,000 CAD depending on the airline size and the length of the delay.", Category: "compensation", Order: 2, IsActive: true},
		{Question: "What delays qualify for compensation?", Answer: "Delays of 3 hours or more that are within the airline's control. Weather and other extraordinary circumstances do not qualify.", Category: "eligibility", Order: 3, IsActive: true},
		{Question: "What is a Power of Attorney?", Answer: "A POA lets us collect compensation from the airline on your behalf and transfer your share immediately, instead of invoicing you afterwards.", Category: "process", Order: 4, IsActive: true},
		{Question: "How long does a claim take?", Answer: "Most claims are resolved within 6 to 8 weeks, depending on the airline's response time.", Category: "process", Order: 5, IsActive: true},
	}
	for _, faq := range seeds {
		_ = db.Create(&faq).Error
	}
}
