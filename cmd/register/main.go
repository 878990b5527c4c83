// Lambda entry point for registration processing. Credentials and email
// settings arrive per invocation as API Gateway stage variables.
package main

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"registration-service/config"
	"registration-service/gateway"
	"registration-service/logging"
	"registration-service/mailer"
	"registration-service/models"
	"registration-service/service"
	"registration-service/validation"
)

func handler(ctx context.Context, event events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	var req models.RegistrationRequest
	if err := json.Unmarshal([]byte(event.Body), &req); err != nil {
		return respond(models.RegisterResponse{
			Success: false,
			Error: &models.ResultError{
				Kind:    models.ErrorKindValidation,
				Message: "Malformed registration payload.",
			},
		})
	}

	gw := gateway.New(config.GatewayFromStageVariables(event.StageVariables))
	ml := mailer.New(config.MailFromStageVariables(event.StageVariables))
	svc := service.NewService(nil, validation.New(), gw, gw, ml)

	return respond(svc.Register(ctx, req))
}

func respond(body any) (events.APIGatewayProxyResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{}, err
	}
	return events.APIGatewayProxyResponse{
		StatusCode: http.StatusOK,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(payload),
	}, nil
}

func main() {
	if err := logging.Init("registration-register"); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logging.Sync()

	lambda.Start(handler)
}
