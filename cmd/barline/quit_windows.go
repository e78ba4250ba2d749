package main

func registerQuitHandler() {}
