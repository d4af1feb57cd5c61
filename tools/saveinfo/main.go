package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"cognitive-sim/internal/storage"
)

func main() {
	if len(os.Args) < 2 {
		printHelp()
		return
	}

	switch os.Args[1] {
	case "header":
		snap, ok := read()
		if !ok {
			return
		}
		fmt.Printf("seed:     %d\n", snap.Seed)
		fmt.Printf("saved at: %s\n", time.UnixMilli(snap.Timestamp).UTC().Format(time.RFC3339))
		fmt.Printf("tick:     %d\n", snap.Tick)
		fmt.Printf("depth:    %d\n", snap.Layer)
		fmt.Printf("state:    %s\n", snap.State)
		fmt.Printf("entities: %d\n", len(snap.Entities))
	case "entities":
		snap, ok := read()
		if !ok {
			return
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(snap.Entities); err != nil {
			fmt.Printf("Encode failed: %v\n", err)
		}
	case "time":
		if len(os.Args) < 3 {
			fmt.Println("Usage: saveinfo time <unix_ms>")
			return
		}
		ms, err := strconv.ParseInt(os.Args[2], 10, 64)
		if err != nil {
			fmt.Printf("Invalid timestamp: %v\n", err)
			return
		}
		fmt.Println(time.UnixMilli(ms).UTC().Format(time.RFC3339))
	default:
		printHelp()
	}
}

func read() (*storage.Snapshot, bool) {
	if len(os.Args) < 3 {
		fmt.Printf("Usage: saveinfo %s <file.cdsv>\n", os.Args[1])
		return nil, false
	}
	f, err := os.Open(os.Args[2])
	if err != nil {
		fmt.Printf("Open failed: %v\n", err)
		return nil, false
	}
	defer f.Close()

	snap, err := storage.Read(f)
	if err != nil {
		fmt.Printf("Invalid save: %v\n", err)
		return nil, false
	}
	return snap, true
}

func printHelp() {
	fmt.Println(`Save Info - просмотр файлов сохранений (.cdsv)
Commands:
  header <file>      - заголовок: seed, время, тик, глубина, состояние
  entities <file>    - сущности снимка в JSON
  time <unix_ms>     - преобразовать время из имени файла в читаемый формат`)
}
