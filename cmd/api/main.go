package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/app"
	"github.com/dengyh1993/Ai-ToDoList-Demo/internal/config"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatal("загрузка конфигурации: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application := app.New(cfg)
	if err := application.Init(ctx); err != nil {
		log.Fatal("инициализация приложения: ", err)
	}

	if err := application.Run(ctx); err != nil {
		log.Fatal(err)
	}
}
