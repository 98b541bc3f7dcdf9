package main

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/amjido-01/webTray-sub001/cli"
	"github.com/jessevdk/go-flags"
)

func main() {
	err := cli.Run(os.Args[1:])
	var flagsErr *flags.Error
	if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
		fmt.Println(flagsErr.Message)
		return
	}
	if err != nil {
		log.Fatal(err)
	}
}
