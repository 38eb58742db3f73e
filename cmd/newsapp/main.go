package main

import "news_review/cmd/newsapp/cmd"

func main() {
	cmd.Execute()
}
