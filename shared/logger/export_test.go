package logger

var SetOutput = setOutput
