package utils

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mmdatafocus/fieldservice_backend/config"
)

var mutex sync.Mutex

func GetCacheLifespan() time.Duration {
	lifespan, err := strconv.Atoi(os.Getenv("CACHE_LIFESPAN"))
	if err != nil {
		lifespan = 1
	}
	return time.Duration(lifespan) * time.Hour
}

/* generic functions */

func GetTypeName[T any]() string {
	var v T
	typeOfT := reflect.TypeOf(v)
	return typeOfT.Name()
}

/* Redis */

// reference data that changes rarely but is read on every generation pass
func typeHasExpiration(typeName string) bool {
	expirableTypes := map[string]bool{
		"Product":         true,
		"ServiceTemplate": true,
		"ServiceLocation": true,
		"ServiceCategory": true,
		"Customer":        true,
	}
	return expirableTypes[typeName]
}

// store instance, obj should be a pointer
func StoreRedis[T any](obj any, id int) error {
	typeName := GetTypeName[T]()
	key := typeName + ":" + fmt.Sprint(id)

	var duration time.Duration
	if typeHasExpiration(typeName) {
		duration = GetCacheLifespan()
	}
	return config.SetRedisObject(key, &obj, duration)
}

// retrieve instance; nil without error when the key is absent
func RetrieveRedis[T any](id int) (*T, error) {
	key := GetTypeName[T]() + ":" + fmt.Sprint(id)
	var obj T
	exists, err := config.GetRedisObject(key, &obj)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return &obj, nil
}

func StoreRedisList[T any](obj any, businessId string) error {
	typeName := GetTypeName[T]()
	var key string
	if businessId == "" {
		key = typeName + "List"
	} else {
		key = typeName + "List:" + businessId
	}

	var duration time.Duration
	if typeHasExpiration(typeName) {
		duration = GetCacheLifespan()
	}
	return config.SetRedisObject(key, &obj, duration)
}

func RetrieveRedisList[T any](businessId string) ([]*T, error) {
	typeName := GetTypeName[T]()
	var key string
	if businessId == "" {
		key = typeName + "List"
	} else {
		key = typeName + "List:" + businessId
	}
	var list []*T
	exists, err := config.GetRedisObject(key, &list)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	return list, nil
}

// drop a cached instance and the tenant's cached list after a write
func RemoveRedisResource[T any](businessId string, id int) error {
	typeName := GetTypeName[T]()
	return config.RemoveRedisKey(
		typeName+":"+fmt.Sprint(id),
		typeName+"List:"+businessId,
	)
}

// next per-tenant sequence number for T, redis counter seeded from the db max
func GetSequence[T any](ctx context.Context, businessId string) (int64, error) {
	var model T
	mutex.Lock()
	defer mutex.Unlock()
	cacheKey := businessId + "-" + strings.ToLower(GetTypeName[T]()) + "_seq"
	db := config.GetDB()

	seqNo, err := config.GetRedisCounter(ctx, cacheKey)
	if err != nil {
		return 0, err
	}
	// counter missing (fresh redis) or redis unavailable: seed from the db max
	if seqNo <= 1 {
		var dbSeq *int64
		if err := db.WithContext(ctx).Model(&model).Select("max(sequence_no)").
			Where("business_id = ?", businessId).
			Scan(&dbSeq).Error; err != nil {
			return 0, err
		}
		if dbSeq == nil {
			seqNo = 0
		} else {
			seqNo = *dbSeq
		}
		seqNo++
		if err := config.SetRedisObject(cacheKey, &seqNo, 0); err != nil {
			return 0, err
		}
	}
	return seqNo, nil
}
