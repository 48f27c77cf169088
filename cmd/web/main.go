// HireFlow API: кампусный рекрутинг (студенты, колледжи, компании).
package main

import "hireflow_backend/internal/app"

func main() {
	app.Run()
}
