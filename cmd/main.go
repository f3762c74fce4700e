package main

import "github.com/adanyl0v/taskflow/internal/app"

func main() {
	a := app.New()
	a.MustReadEnv()
	a.MustInitApplicationLogger()

	a.MustConnectStorage()
	defer a.CloseStorage()

	a.MustInitIdentityProvider()

	a.MustListenAndServeHTTP()
}
