package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"node-cache-api/internal/nodes"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	baseURL := getEnv("NODES_BASE_URL", "http://localhost:8008")
	login := nodes.NewTokenLogin(nil, baseURL, os.Getenv("NODES_USERNAME"), os.Getenv("NODES_PASSWORD"))
	client := nodes.NewClient(nil, baseURL, login)

	list, err := client.ListNodes(ctx)
	if err != nil {
		log.Fatal("Failed to list nodes: ", err)
	}

	log.Printf("%d node(s) at %s", len(list), baseURL)
	for _, n := range list {
		fmt.Println(n.ID)
	}
}
