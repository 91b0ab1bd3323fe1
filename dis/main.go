package main

import (
	"flag"
	"fmt"
	"github.com/jrb64/c64core/dis/disassembler"
	"os"
	"strconv"
	"strings"
)

// flatMemory adapts a plain byte slice to disassembler.Memory so the
// tool can disassemble a standalone binary without wiring up a full
// machine bus.
type flatMemory []uint8

func (m flatMemory) Read(addr uint16) uint8 { return m[addr] }

func main() {
	// Command line flags
	inputFile := flag.String("i", "", "Input binary file")
	startAddr := flag.String("a", "", "Start address")
	flag.Parse()

	addrStr := *startAddr
	if strings.HasPrefix(addrStr, "$") {
		addrStr = "0x" + addrStr[1:]
	}
	startAddrInt, err := strconv.ParseUint(addrStr, 0, 16)
	if err != nil {
		fmt.Printf("Error parsing start address: %v\n", err)
		return
	}

	mem := make(flatMemory, 0x10000)
	length, err := loadBinary(mem, *inputFile, int(startAddrInt))
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println(disassembler.DisassembleMemory(mem, int(startAddrInt), length))
}

func loadBinary(mem flatMemory, filename string, startAddr int) (int, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return 0, fmt.Errorf("failed to read binary file: %v", err)
	}

	if startAddr+len(data) > len(mem) {
		return 0, fmt.Errorf("binary file too large for available memory")
	}

	for i, b := range data {
		mem[startAddr+i] = b
	}

	return len(data), nil
}
