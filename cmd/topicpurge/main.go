package main

import "github.com/pulsar-ops/topicpurge/cmd/topicpurge/topicpurgecmd"

func main() { topicpurgecmd.Execute() }
