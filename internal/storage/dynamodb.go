package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/opsmind/phonesystem/backend/internal/types"
	"github.com/rs/zerolog"
)

// DynamoDBStore implements Store using AWS DynamoDB
type DynamoDBStore struct {
	client *dynamodb.Client
	config Config
	logger zerolog.Logger
}

// NewDynamoDBStore creates a new DynamoDB store
func NewDynamoDBStore(ctx context.Context, cfg Config, logger zerolog.Logger) (*DynamoDBStore, error) {
	var client *dynamodb.Client

	if cfg.Mode == ModeLocal {
		// Built directly: LoadDefaultConfig probes the EC2 IMDS endpoint,
		// which hangs on EC2 hosts when static credentials are intended.
		client = dynamodb.New(dynamodb.Options{
			Region:       cfg.Region,
			BaseEndpoint: aws.String(cfg.Endpoint),
			Credentials:  credentials.NewStaticCredentialsProvider("local", "local", ""),
		})
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load AWS config: %w", err)
		}
		client = dynamodb.NewFromConfig(awsCfg)
	}

	store := &DynamoDBStore{
		client: client,
		config: cfg,
		logger: logger,
	}

	if cfg.Mode == ModeLocal {
		if err := CreateTablesIfNotExist(ctx, client, cfg, logger); err != nil {
			return nil, err
		}
	}

	logger.Info().
		Str("mode", string(cfg.Mode)).
		Str("region", cfg.Region).
		Msg("DynamoDB store initialized")

	return store, nil
}

func (s *DynamoDBStore) put(ctx context.Context, table string, item interface{}) error {
	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return fmt.Errorf("failed to marshal link: %w", err)
	}

	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      av,
	})
	if err != nil {
		return fmt.Errorf("failed to save link in %s: %w", table, err)
	}
	return nil
}

func (s *DynamoDBStore) LinkAssistant(ctx context.Context, userID, assistantID string) error {
	if userID == "" || assistantID == "" {
		return ErrMissingID
	}
	return s.put(ctx, s.config.AssistantsTable, types.AssistantLink{
		UserID:      userID,
		AssistantID: assistantID,
		LinkedAt:    time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *DynamoDBStore) LinkPhone(ctx context.Context, userID, phoneID string) error {
	if userID == "" || phoneID == "" {
		return ErrMissingID
	}
	return s.put(ctx, s.config.PhonesTable, types.PhoneLink{
		UserID:   userID,
		PhoneID:  phoneID,
		LinkedAt: time.Now().UTC().Format(time.RFC3339),
	})
}

// queryByUser returns every item of table under the userID partition; the
// sort key keeps them ordered by id.
func (s *DynamoDBStore) queryByUser(ctx context.Context, table, userID string, out interface{}) error {
	keyCond := expression.Key("UserID").Equal(expression.Value(userID))
	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	var items []map[string]dbtypes.AttributeValue
	paginator := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:                 aws.String(table),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to query %s: %w", table, err)
		}
		items = append(items, page.Items...)
	}

	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("failed to unmarshal links: %w", err)
	}
	return nil
}

func (s *DynamoDBStore) ListAssistantIDs(ctx context.Context, userID string) ([]string, error) {
	var links []types.AssistantLink
	if err := s.queryByUser(ctx, s.config.AssistantsTable, userID, &links); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.AssistantID)
	}
	return ids, nil
}

func (s *DynamoDBStore) ListPhoneIDs(ctx context.Context, userID string) ([]string, error) {
	var links []types.PhoneLink
	if err := s.queryByUser(ctx, s.config.PhonesTable, userID, &links); err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.PhoneID)
	}
	return ids, nil
}

// UnlinkAssistant removes the assistant from every owner. AssistantID is
// the sort key, so this scans with a filter; a GSI on AssistantID would
// avoid the scan if the table grows.
func (s *DynamoDBStore) UnlinkAssistant(ctx context.Context, assistantID string) error {
	filter := expression.Name("AssistantID").Equal(expression.Value(assistantID))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return fmt.Errorf("failed to build expression: %w", err)
	}

	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:                 aws.String(s.config.AssistantsTable),
		FilterExpression:          expr.Filter(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return fmt.Errorf("failed to scan assistant links: %w", err)
		}
		for _, item := range page.Items {
			_, err := s.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
				TableName: aws.String(s.config.AssistantsTable),
				Key: map[string]dbtypes.AttributeValue{
					"UserID":      item["UserID"],
					"AssistantID": item["AssistantID"],
				},
			})
			if err != nil {
				return fmt.Errorf("failed to delete assistant link: %w", err)
			}
		}
	}
	return nil
}

// TruncateAll deletes all items from both DynamoDB tables (scan + batch delete)
func (s *DynamoDBStore) TruncateAll(ctx context.Context) error {
	for _, table := range ownershipTables(s.config) {
		if err := s.truncateTable(ctx, table); err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table.name, err)
		}
	}
	return nil
}

func (s *DynamoDBStore) truncateTable(ctx context.Context, table tableKeys) error {
	var lastKey map[string]dbtypes.AttributeValue

	for {
		input := &dynamodb.ScanInput{
			TableName:            aws.String(table.name),
			ProjectionExpression: aws.String("#pk, #sk"),
			ExpressionAttributeNames: map[string]string{
				"#pk": table.pk,
				"#sk": table.sk,
			},
			Limit: aws.Int32(500),
		}
		if lastKey != nil {
			input.ExclusiveStartKey = lastKey
		}

		result, err := s.client.Scan(ctx, input)
		if err != nil {
			return err
		}

		// Batch delete in groups of 25
		for i := 0; i < len(result.Items); i += 25 {
			end := i + 25
			if end > len(result.Items) {
				end = len(result.Items)
			}

			requests := make([]dbtypes.WriteRequest, 0, end-i)
			for _, item := range result.Items[i:end] {
				requests = append(requests, dbtypes.WriteRequest{
					DeleteRequest: &dbtypes.DeleteRequest{
						Key: map[string]dbtypes.AttributeValue{
							table.pk: item[table.pk],
							table.sk: item[table.sk],
						},
					},
				})
			}

			_, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
				RequestItems: map[string][]dbtypes.WriteRequest{
					table.name: requests,
				},
			})
			if err != nil {
				return err
			}
		}

		lastKey = result.LastEvaluatedKey
		if lastKey == nil {
			break
		}
	}

	s.logger.Info().Str("table", table.name).Msg("table truncated")
	return nil
}

func (s *DynamoDBStore) Close() error { return nil }
