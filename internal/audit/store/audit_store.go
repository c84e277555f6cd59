/*
 * Copyright (c) 2025, Aremko SpA. (https://www.aremko.cl).
 *
 * Aremko SpA. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package store

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aremko/integration-backbone/internal/audit/model"
	"github.com/aremko/integration-backbone/internal/system/config"
	errors2 "github.com/aremko/integration-backbone/internal/system/errors"
)

var (
	connectOnce    sync.Once
	collection     *mongo.Collection
	connectErr     error
	testCollection *mongo.Collection
)

// SetTestCollection overrides the audit collection for tests.
func SetTestCollection(c *mongo.Collection) {
	testCollection = c
}

func getCollection() (*mongo.Collection, error) {

	if testCollection != nil {
		return testCollection, nil
	}

	connectOnce.Do(func() {
		cfg := config.GetIBSRuntime().Config.AuditStore
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
		if err != nil {
			connectErr = err
			return
		}
		if err := client.Ping(ctx, nil); err != nil {
			connectErr = err
			return
		}
		collection = client.Database(cfg.Database).Collection(cfg.Collection)
	})

	if connectErr != nil {
		return nil, errors2.NewServerError(errors2.DB_CLIENT_INIT, connectErr)
	}
	return collection, nil
}

// Ping verifies the audit store is reachable.
func Ping(ctx context.Context) error {

	coll, err := getCollection()
	if err != nil {
		return err
	}
	return coll.Database().Client().Ping(ctx, nil)
}

// InsertRecord appends one audit record.
func InsertRecord(record model.AuditRecord) error {

	coll, err := getCollection()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = coll.InsertOne(ctx, record)
	if err != nil {
		return errors2.NewServerError(errors2.ADD_AUDIT_EVENT, err)
	}
	return nil
}

// FindRecords fetches audit records matching the query, newest first.
func FindRecords(orgHandle string, query model.AuditQuery) ([]model.AuditRecord, error) {

	coll, err := getCollection()
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"org_handle": orgHandle}
	if query.ActionID != "" {
		filter["action_id"] = query.ActionID
	}
	if query.TargetType != "" {
		filter["target_type"] = query.TargetType
	}
	if query.TargetID != "" {
		filter["target_id"] = query.TargetID
	}
	if query.From != nil || query.To != nil {
		window := bson.M{}
		if query.From != nil {
			window["$gte"] = *query.From
		}
		if query.To != nil {
			window["$lte"] = *query.To
		}
		filter["recorded_at"] = window
	}

	limit := int64(query.Limit)
	if limit <= 0 {
		limit = 100
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "recorded_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors2.NewServerError(errors2.FETCH_AUDIT_EVENTS, err)
	}
	defer cursor.Close(ctx)

	var records []model.AuditRecord
	if err := cursor.All(ctx, &records); err != nil {
		return nil, errors2.NewServerError(errors2.FETCH_AUDIT_EVENTS, err)
	}
	return records, nil
}
