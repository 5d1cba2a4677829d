package main

import (
	"github.com/yulclaims/claim_service/config"
	"github.com/yulclaims/claim_service/internal/api"
)

func main() {
	cfg := config.LoadConfig()
	api.StartServer(cfg)
}
