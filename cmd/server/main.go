package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/bmedvedec/chess-board/pkg"
)

func main() {
	addr := flag.String("addr", ":2222", "ssh listen address")
	binary := flag.String("binary", "chess-board", "path to the chess-board client binary")
	hostKey := flag.String("hostkey", "", "path to the ssh host key (default ~/.ssh/id_rsa)")
	logPath := flag.String("log", "/tmp/chess-board-server.log", "path to log file")
	flag.Parse()

	pkg.InitLog(*logPath, "SERVER: ")
	log.Printf("server starting on %s", *addr)

	s, err := pkg.NewServer(*addr, *binary, *hostKey)
	if err != nil {
		log.Fatal(err)
	}

	color.New(color.FgGreen, color.Bold).Printf("chess-board server listening on %s\n", *addr)

	go func() {
		if err := s.ListenAndServe(); err != nil {
			log.Fatal(err)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	log.Println("server shutting down")
	s.Close()
}
