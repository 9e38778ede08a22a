package main

import "errors"

var errRequestFailed = errors.New("request did not produce a document")
