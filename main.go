package main

import "github.com/RachitaModiTR/AnalyticsDashboard/cmd"

func main() {
	cmd.Execute()
}
