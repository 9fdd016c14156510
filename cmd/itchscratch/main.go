package main

import (
	"itchscratch/cmd/itchscratch/commands"
	"itchscratch/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
