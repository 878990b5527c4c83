// Lambda entry point for client-token issuance. Gateway credentials arrive
// per invocation as API Gateway stage variables.
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
	gw := gateway.New(config.GatewayFromStageVariables(event.StageVariables))
	ml := mailer.New(config.MailFromStageVariables(event.StageVariables))
	svc := service.NewService(nil, validation.New(), gw, gw, ml)

	resp, err := svc.IssueToken(ctx)
	if err != nil {
		return respond(models.RegisterResponse{
			Success: false,
			Error: &models.ResultError{
				Kind:    models.ErrorKindGateway,
				Message: "Unable to issue client token.",
			},
		})
	}
	return respond(resp)
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
	if err := logging.Init("registration-clienttoken"); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer logging.Sync()

	lambda.Start(handler)
}
