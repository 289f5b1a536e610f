package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/frahmantamala/facility-management/internal/auth"
	authRedis "github.com/frahmantamala/facility-management/internal/auth/redis"
	goredis "github.com/go-redis/redis/v8"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestGrantCache(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Grant Cache Suite")
}

var _ = Describe("Redis GrantCache", func() {
	var (
		mr     *miniredis.Miniredis
		client *goredis.Client
		cache  *authRedis.GrantCache
		ctx    context.Context
	)

	BeforeEach(func() {
		var err error
		mr, err = miniredis.Run()
		Expect(err).NotTo(HaveOccurred())

		ctx = context.Background()
		client, err = authRedis.NewClient(ctx, mr.Addr(), "", 0)
		Expect(err).NotTo(HaveOccurred())
		cache = authRedis.NewGrantCache(client, time.Minute)
	})

	AfterEach(func() {
		_ = client.Close()
		mr.Close()
	})

	It("should miss on an empty cache", func() {
		codes, ok, err := cache.Get(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
		Expect(codes).To(BeNil())
	})

	It("should round-trip grants", func() {
		Expect(cache.Set(ctx, 1, []auth.Code{auth.RoomRead, auth.AssetUpdate})).To(Succeed())

		codes, ok, err := cache.Get(ctx, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(codes).To(Equal([]auth.Code{auth.RoomRead, auth.AssetUpdate}))
	})

	It("should cache an empty grant set as a hit", func() {
		Expect(cache.Set(ctx, 2, nil)).To(Succeed())

		codes, ok, err := cache.Get(ctx, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(codes).To(BeEmpty())
	})

	It("should expire entries after the ttl", func() {
		Expect(cache.Set(ctx, 3, []auth.Code{auth.RoomRead})).To(Succeed())
		mr.FastForward(2 * time.Minute)

		_, ok, err := cache.Get(ctx, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("should drop entries on invalidate", func() {
		Expect(cache.Set(ctx, 4, []auth.Code{auth.RoomRead})).To(Succeed())
		Expect(cache.Invalidate(ctx, 4)).To(Succeed())

		_, ok, err := cache.Get(ctx, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
	})

	It("should fail to connect to an unreachable server", func() {
		addr := mr.Addr()
		mr.Close()
		_, err := authRedis.NewClient(ctx, addr, "", 0)
		Expect(err).To(HaveOccurred())
	})
})
