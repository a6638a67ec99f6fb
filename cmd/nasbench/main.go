/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ssargent/nasbench/cmd/nasbench/cmd"

func main() {
	cmd.Execute()
}
